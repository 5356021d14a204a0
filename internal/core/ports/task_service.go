package ports

import (
	"context"
	"time"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// SubmitFeedbackInput is the feedback form as received from a focal person.
type SubmitFeedbackInput struct {
	Title          string
	Details        string
	Age            int
	Gender         string
	Location       string
	Project        string
	Type           domain.TaskType
	Channel        string
	Phone          string
	Priority       domain.TaskPriority
	Anonymous      bool
	Assignee       string
	DueDate        time.Time // zero = derived from priority
	IdempotencyKey string
}

// TaskService is the lifecycle manager. Every call names the acting user or
// role and is re-authorized inside the service.
type TaskService interface {
	Submit(ctx context.Context, actor *domain.User, input SubmitFeedbackInput) (*domain.Task, error)
	Get(ctx context.Context, actor domain.Role, id string) (*domain.Task, error)
	List(ctx context.Context, actor domain.Role, filter domain.TaskFilter) ([]*domain.Task, error)
	Stats(ctx context.Context, actor domain.Role) (domain.TaskStats, error)
	Analytics(ctx context.Context, actor domain.Role) (domain.Analytics, error)
	UpdateStatus(ctx context.Context, actor domain.Role, id string, status domain.TaskStatus) (*domain.Task, error)
	Assign(ctx context.Context, actor domain.Role, id, assignee string) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.Role, id string) error
}
