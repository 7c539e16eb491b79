package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
)

func newTestIssuer(now time.Time) *Issuer {
	iss := NewIssuer(&core.Config{AppName: "SHMS", SecretKey: "test_secret"})
	iss.now = func() time.Time { return now }
	return iss
}

func TestIssuer_IssueVerify(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(now)

	tests := []struct {
		name  string
		ident Identity
	}{
		{"stored user", Identity{ID: 7, Name: "Ravi Kumar", Email: "ravi@uni.edu", Role: "student"}},
		{"demo identity", Identity{Name: "jane", Email: "jane@uni.edu", Role: "staff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := iss.Issue(tt.ident)
			require.NoError(t, err)

			got, err := iss.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, tt.ident, got)
		})
	}
}

func TestIssuer_Verify(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(now)
	token, err := iss.Issue(Identity{ID: 1, Email: "a@b.c", Role: "admin"})
	require.NoError(t, err)

	t.Run("still valid just before expiry", func(t *testing.T) {
		iss.now = func() time.Time { return now.Add(DefaultTTL - time.Minute) }
		_, err := iss.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("expired after 8h", func(t *testing.T) {
		iss.now = func() time.Time { return now.Add(DefaultTTL + time.Minute) }
		_, err := iss.Verify(token)
		assert.Equal(t, ErrTokenExpired, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewIssuer(&core.Config{AppName: "SHMS", SecretKey: "other_secret"})
		_, err := other.Verify(token)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("garbage", func(t *testing.T) {
		iss.now = func() time.Time { return now }
		_, err := iss.Verify("not.a.token")
		assert.Equal(t, ErrInvalidToken, err)
	})
}
