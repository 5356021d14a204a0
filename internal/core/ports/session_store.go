package ports

import (
	"context"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// SessionStore is the durable key-value slot holding the signed-in user
// snapshot of a device.
type SessionStore interface {
	// Load returns domain.ErrSessionNotFound when the slot is empty.
	Load(ctx context.Context, key string) (*domain.User, error)
	Save(ctx context.Context, key string, user *domain.User) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}

// SubmissionGuard claims idempotency keys of feedback submissions.
type SubmissionGuard interface {
	// Claim atomically reserves key. When key is already taken it reports
	// false with the task reference recorded for it, "" while the owning
	// submission is still in flight.
	Claim(ctx context.Context, key string) (taskID string, claimed bool, err error)
	// Complete records the task created under a claimed key.
	Complete(ctx context.Context, key, taskID string) error
	// Release drops a claim whose submission failed.
	Release(ctx context.Context, key string) error
}
