package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

type stubRestorer struct {
	slots map[string]*domain.User
	err   error
}

func (s *stubRestorer) Restore(_ context.Context, key string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Session{Key: key, User: s.slots[key]}, nil
}

func signedToken(t *testing.T, secret, sub, sid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"sid":  sid,
		"role": "admin",
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string, restorer SessionRestorer) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", restorer)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	restorer := &stubRestorer{slots: map[string]*domain.User{
		"crm-user:dev-1": {ID: "3", Email: "viewer@ngo.org", Role: domain.RoleViewer},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", "3", "dev-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", restorer)(func(c echo.Context) error {
		called = true
		session, ok := c.Get(SessionContextKey).(*domain.Session)
		if !ok || session.User.ID != "3" {
			t.Fatalf("session not set")
		}
		// The role comes from the restored session, not from the token.
		if c.Get(RoleContextKey) != "viewer" {
			t.Fatalf("role not set from session, got %v", c.Get(RoleContextKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	empty := &stubRestorer{slots: map[string]*domain.User{}}
	reused := &stubRestorer{slots: map[string]*domain.User{
		"crm-user:shared": {ID: "1", Email: "admin@ngo.org", Role: domain.RoleAdmin},
	}}

	cases := []struct {
		name     string
		header   string
		restorer SessionRestorer
		want     int
	}{
		{"missing header", "", empty, http.StatusUnauthorized},
		{"invalid header format", "Token abc", empty, http.StatusUnauthorized},
		{"invalid token", "Bearer not-a-token", empty, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, "other", "3", "dev-1"), empty, http.StatusUnauthorized},
		{"logged out slot", "Bearer " + signedToken(t, "secret", "3", "dev-1"), empty, http.StatusUnauthorized},
		{"slot holds another user", "Bearer " + signedToken(t, "secret", "3", "shared"), reused, http.StatusUnauthorized},
		{"missing sid", "Bearer " + signedToken(t, "secret", "3", ""), reused, http.StatusUnauthorized},
		{"store failure", "Bearer " + signedToken(t, "secret", "3", "dev-1"), &stubRestorer{err: errors.New("redis down")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := runAuth(t, tc.header, tc.restorer)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
