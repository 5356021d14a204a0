package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

func TestTokenIssuer_Issue(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := &domain.User{ID: "2", Email: "focal@ngo.org", Role: domain.RoleFocalPerson}

	signed, exp, err := issuer.Issue("device-1", user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry must be in the future, got %v", exp)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sid"] != "device-1" || claims["sub"] != "2" || claims["role"] != "focal_person" {
		t.Errorf("unexpected claims: %v", claims)
	}

	if _, _, err := issuer.Issue("x", nil); err == nil {
		t.Error("expected error for nil user")
	}
}
