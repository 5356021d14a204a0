package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// Context keys set by Auth.
const (
	SessionContextKey = "session"
	RoleContextKey    = "role"
)

// SessionRestorer rebuilds the session persisted under a slot key.
type SessionRestorer interface {
	Restore(ctx context.Context, key string) (*domain.Session, error)
}

// Auth validates the JWT, restores the session slot it names and injects the
// session into context. Tokens whose slot was cleared by logout, or now holds
// another user, are rejected.
func Auth(jwtSecret string, sessions SessionRestorer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			sub, _ := claims["sub"].(string)
			if sid == "" || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			session, err := sessions.Restore(c.Request().Context(), domain.SlotKey(sid))
			if err != nil {
				return err
			}
			if !session.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
			}
			// The slot must still belong to the user the token was issued to.
			if session.User.ID != sub {
				return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
			}

			c.Set(SessionContextKey, session)
			c.Set(RoleContextKey, string(session.Role()))

			return next(c)
		}
	}
}
