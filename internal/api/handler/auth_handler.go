package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/api/metrics"
	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

// TokenIssuer signs the bearer token returned by a successful login.
type TokenIssuer interface {
	Issue(sid string, user *domain.User) (string, time.Time, error)
}

type AuthHandler struct {
	identity ports.IdentityService
	tokens   TokenIssuer
}

func NewAuthHandler(identity ports.IdentityService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens}
}

// Login signs a roster member in and returns a bearer token for the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	// Every login gets a fresh slot; clients never name it.
	sid := uuid.NewString()
	session := domain.NewSession(sid)

	ok, err := h.identity.Login(c.Request().Context(), session, req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return domain.ErrInvalidCredentials
	}

	token, exp, err := h.tokens.Issue(sid, session.User)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: exp,
		Session:   toSessionResponse(session),
	})
}

// Logout ends the session named by the bearer token. The token stops working
// immediately.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.identity.Logout(c.Request().Context(), session); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user with its permissions and navigation.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(session))
}
