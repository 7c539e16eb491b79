package session

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
)

const DefaultTTL = 8 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Identity is who a session token speaks for.
// ID is zero for demo identities that have no stored user.
type Identity struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (c *Claims) Identity() Identity {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return Identity{ID: id, Name: c.Name, Email: c.Email, Role: c.Role}
}

type Issuer struct {
	appName string
	key     []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewIssuer(conf *core.Config) *Issuer {
	ttl := conf.Auth.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		appName: conf.AppName,
		key:     []byte(conf.SecretKey),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key returns the HS256 signing key, for the JWT middleware.
func (iss *Issuer) Key() []byte {
	return iss.key
}

func (iss *Issuer) claims(ident Identity) *Claims {
	now := iss.now()
	var sub string
	if ident.ID != 0 {
		sub = strconv.FormatInt(ident.ID, 10)
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    iss.appName,
			Subject:   sub,
			ExpiresAt: now.Add(iss.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  ident.Name,
		Email: ident.Email,
		Role:  ident.Role,
	}
}

// Issue generates a signed JWT token string representing `ident`.
func (iss *Issuer) Issue(ident Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, iss.claims(ident))
	ss, err := token.SignedString(iss.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify parses `tokenStr` and returns the identity it carries.
// It applies the same checks as the router's JWT middleware: HS256 only, signed with Key, not expired.
func (iss *Issuer) Verify(tokenStr string) (Identity, error) {
	claims := new(Claims)
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return iss.key, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(iss.now().Unix(), true) {
		return Identity{}, ErrTokenExpired
	}
	return claims.Identity(), nil
}
