package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

const sessionPrefix = "session:"

// SessionStore persists session slots as JSON user snapshots.
// Key format: session:<slot key>
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSessionStore wraps client. A zero ttl keeps slots until logout.
func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// snapshot is the persisted form. The password hash never leaves the roster.
type snapshot struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	Avatar     string      `json:"avatar,omitempty"`
	Department string      `json:"department,omitempty"`
	JoinedAt   time.Time   `json:"joined_at"`
}

func (s *SessionStore) Load(ctx context.Context, key string) (*domain.User, error) {
	raw, err := s.client.Get(ctx, sessionPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &domain.User{
		ID:         snap.ID,
		Email:      snap.Email,
		Name:       snap.Name,
		Role:       snap.Role,
		Avatar:     snap.Avatar,
		Department: snap.Department,
		JoinedAt:   snap.JoinedAt,
	}, nil
}

func (s *SessionStore) Save(ctx context.Context, key string, user *domain.User) error {
	raw, err := json.Marshal(snapshot{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		Avatar:     user.Avatar,
		Department: user.Department,
		JoinedAt:   user.JoinedAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
