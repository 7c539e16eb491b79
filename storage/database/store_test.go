package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
	testutil "github.com/trezcool/shms/tests"
)

func TestOpenStore_Disabled(t *testing.T) {
	ctx := context.Background()
	conf := &core.Config{Database: core.DatabaseConfig{Enabled: false}}

	store, err := OpenStore(ctx, conf, testutil.NopLogger{})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, core.StorageMemory, store.Mode)
	assert.False(t, store.Ready())

	notices, err := store.Notices.QueryAllNotices(ctx)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "Welcome", notices[0].Title)

	studs, err := store.Students.QueryAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, studs, 1)
	assert.Equal(t, "ravi@uni.edu", studs[0].Email)
}

func TestOpenStore_Unreachable(t *testing.T) {
	ctx := context.Background()
	conf := &core.Config{Database: core.DatabaseConfig{
		Enabled:      true,
		Engine:       "postgres",
		Host:         "127.0.0.1",
		Port:         1, // nothing listens here
		User:         "postgres",
		Name:         "smart_hostel",
		DisableTLS:   true,
		PingAttempts: 1,
	}}

	store, err := OpenStore(ctx, conf, testutil.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, core.StorageMemory, store.Mode)
}

func TestDSN(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:        "postgres",
		Host:          "db",
		Port:          5432,
		User:          "app",
		Password:      "secret",
		AdminUser:     "root",
		AdminPassword: "toor",
		DisableTLS:    true,
	}}

	assert.Equal(t, "postgres://app:secret@db:5432/smart_hostel?sslmode=disable&timezone=utc", dsn("smart_hostel", false, conf))
	assert.Equal(t, "postgres://root:toor@db:5432/postgres?sslmode=disable&timezone=utc", dsn("postgres", true, conf))
}
