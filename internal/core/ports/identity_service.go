package ports

import (
	"context"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// AddUserInput carries a new roster entry; id and joined date are assigned
// by the service.
type AddUserInput struct {
	Email      string
	Name       string
	Role       domain.Role
	Avatar     string
	Department string
	// Password is optional. Entries without one accept any password at login.
	Password string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Email      *string
	Name       *string
	Role       *domain.Role
	Avatar     *string
	Department *string
	Password   *string
}

// IdentityService owns sessions and the roster.
type IdentityService interface {
	Login(ctx context.Context, session *domain.Session, email, password string) (bool, error)
	Logout(ctx context.Context, session *domain.Session) error
	Restore(ctx context.Context, key string) (*domain.Session, error)

	ListUsers(ctx context.Context, actor domain.Role, filter domain.UserFilter) ([]*domain.User, error)
	RosterStats(ctx context.Context, actor domain.Role) (domain.RosterStats, error)
	AddUser(ctx context.Context, actor domain.Role, input AddUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Role, id string, patch UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Role, id string) error
}
