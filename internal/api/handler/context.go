package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/api/middleware"
	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// fast-fails when nobody is signed in.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get(middleware.SessionContextKey).(*domain.Session)
	if !session.Authenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return session, nil
}
