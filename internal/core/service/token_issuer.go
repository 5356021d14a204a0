package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// TokenIssuer signs the bearer tokens handed out at login. A token only
// names the session slot; the user behind it is resolved on every request.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns an HS256 token for user bound to the session slot sid.
func (i *TokenIssuer) Issue(sid string, user *domain.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("issue token: no user")
	}
	now := i.now()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"sid":   sid,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}
