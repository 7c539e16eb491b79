package echoapi

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/shms/core/session"
)

const contextTokenKey = "userToken"

func newJWTMiddleware(sessions *session.Issuer) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    sessions.Key(),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        &session.Claims{},
	})
}

func contextIdentity(ctx echo.Context) (session.Identity, bool) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*session.Claims); ok {
			return claims.Identity(), true
		}
	}
	return session.Identity{}, false
}

// requireRole lets the request through when the session role matches any of `roles`.
// Matching is exact (case-insensitive); roles carry no hierarchy.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ident, ok := contextIdentity(ctx)
			if !ok {
				return errUnauthorized
			}
			for _, role := range roles {
				if strings.EqualFold(ident.Role, role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}
