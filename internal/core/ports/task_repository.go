package ports

import (
	"context"
	"time"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// TaskRepository persists feedback tasks.
type TaskRepository interface {
	// List returns every task in creation order.
	List(ctx context.Context) ([]*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	// Update follows the same optimistic version contract as UserRepository.Update.
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	// NextReference allocates the next human-readable reference, e.g. "FB-006".
	NextReference(ctx context.Context) (string, error)
	// ReplaceAssignee rewrites the assignee of every open task assigned to
	// from and stamps UpdatedAt with the date of at, returning how many tasks
	// changed.
	ReplaceAssignee(ctx context.Context, from, to string, at time.Time) (int, error)
}
