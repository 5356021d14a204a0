package ports

import (
	"context"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// UserRepository persists the roster.
type UserRepository interface {
	// List returns every roster entry in roster order.
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail expects a normalized email (see domain.NormalizeEmail).
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create fails with domain.ErrUserExists when the id or email is taken.
	Create(ctx context.Context, user *domain.User) error
	// Update replaces the stored entry whose version equals user.Version and
	// increments user.Version on success. A stale version yields
	// domain.ErrVersionConflict.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
