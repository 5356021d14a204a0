package memory

import (
	"context"
	"sync"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// SessionStore keeps session slots in process memory. Slots do not survive
// a restart.
type SessionStore struct {
	mu    sync.RWMutex
	slots map[string]*domain.User
}

func NewSessionStore() *SessionStore {
	return &SessionStore{slots: make(map[string]*domain.User)}
}

func (s *SessionStore) Load(_ context.Context, key string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return u.Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, key string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = user.Clone()
	return nil
}

func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

// SubmissionGuard remembers idempotency keys for the lifetime of the process.
// A claimed key maps to "" until its task is recorded.
type SubmissionGuard struct {
	mu   sync.Mutex
	seen map[string]string
}

func NewSubmissionGuard() *SubmissionGuard {
	return &SubmissionGuard{seen: make(map[string]string)}
}

func (g *SubmissionGuard) Claim(_ context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.seen[key]; ok {
		return id, false, nil
	}
	g.seen[key] = ""
	return "", true, nil
}

func (g *SubmissionGuard) Complete(_ context.Context, key, taskID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen[key] = taskID
	return nil
}

func (g *SubmissionGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, key)
	return nil
}
