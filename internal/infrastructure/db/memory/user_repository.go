// Package memory holds process-local implementations of the storage ports,
// used by the single-node deployment and by handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []*domain.User
}

// NewUserRepository returns a roster pre-loaded with users, kept in the given order.
func NewUserRepository(users ...*domain.User) *UserRepository {
	r := &UserRepository{}
	for _, u := range users {
		r.users = append(r.users, u.Clone())
	}
	return r
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.users[i].Clone(), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if domain.NormalizeEmail(u.Email) == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	for _, u := range r.users {
		if u.ID == user.ID || domain.NormalizeEmail(u.Email) == email {
			return domain.ErrUserExists
		}
	}
	r.users = append(r.users, user.Clone())
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(user.ID)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	if r.users[i].Version != user.Version {
		return domain.ErrVersionConflict
	}
	user.Version++
	r.users[i] = user.Clone()
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (r *UserRepository) indexOf(id string) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
