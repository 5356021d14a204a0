package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/api/metrics"
	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// RBAC lets the request through when the session role grants at least one of
// perms. Services re-check the acting role; this only fails fast.
func RBAC(perms ...domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleContextKey).(string)
			for _, p := range perms {
				if domain.Role(role).Can(p) {
					return next(c)
				}
			}
			metrics.AuthzDeniedTotal.WithLabelValues(routeLabel(c)).Inc()
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}

func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unknown"
}
