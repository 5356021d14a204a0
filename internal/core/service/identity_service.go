package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

// AssignmentReleaser detaches tasks from a user that leaves the roster.
type AssignmentReleaser interface {
	ReleaseAssignee(ctx context.Context, name string) (int, error)
}

// IdentityService implements sessions and roster management.
type IdentityService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	releaser AssignmentReleaser
	log      zerolog.Logger

	now           func() time.Time
	newID         func() string
	staleFallback bool
}

// IdentityOption customizes an IdentityService.
type IdentityOption func(*IdentityService)

// WithIdentityClock overrides the time source used for joined dates.
func WithIdentityClock(now func() time.Time) IdentityOption {
	return func(s *IdentityService) { s.now = now }
}

// WithIDGenerator overrides roster id generation.
func WithIDGenerator(newID func() string) IdentityOption {
	return func(s *IdentityService) { s.newID = newID }
}

// WithAssignmentReleaser reassigns a deleted user's tasks.
func WithAssignmentReleaser(r AssignmentReleaser) IdentityOption {
	return func(s *IdentityService) { s.releaser = r }
}

// WithStaleSessionFallback controls what Restore does when the persisted
// email no longer matches a roster entry: true keeps the raw persisted record
// signed in, false drops the session.
func WithStaleSessionFallback(enabled bool) IdentityOption {
	return func(s *IdentityService) { s.staleFallback = enabled }
}

func NewIdentityService(users ports.UserRepository, sessions ports.SessionStore, log zerolog.Logger, opts ...IdentityOption) *IdentityService {
	s := &IdentityService{
		users:         users,
		sessions:      sessions,
		log:           log,
		now:           time.Now,
		newID:         uuid.NewString,
		staleFallback: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login signs session in as the roster entry owning email. It reports false,
// leaving session untouched, for unknown emails and wrong passwords. Entries
// without a password hash accept any password.
func (s *IdentityService) Login(ctx context.Context, session *domain.Session, email, password string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Info().Str("email", email).Msg("login rejected: unknown email")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login: %w", err)
	}

	if user.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			s.log.Info().Str("user_id", user.ID).Msg("login rejected: wrong password")
			return false, nil
		}
	}

	if err := s.sessions.Save(ctx, session.Key, user); err != nil {
		return false, fmt.Errorf("login: persist session: %w", err)
	}
	session.SignIn(user)

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user signed in")
	return true, nil
}

// Logout clears the session and its persisted slot. Idempotent.
func (s *IdentityService) Logout(ctx context.Context, session *domain.Session) error {
	if err := s.sessions.Delete(ctx, session.Key); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if session.Authenticated() {
		s.log.Info().Str("user_id", session.User.ID).Msg("user signed out")
	}
	session.SignOut()
	return nil
}

// Restore rebuilds the session persisted under key. The persisted email is
// resolved against the current roster so role edits apply immediately. An
// empty slot yields an anonymous session.
func (s *IdentityService) Restore(ctx context.Context, key string) (*domain.Session, error) {
	session := &domain.Session{Key: key}

	snapshot, err := s.sessions.Load(ctx, key)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return session, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	current, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(snapshot.Email))
	switch {
	case err == nil:
		session.SignIn(current)
	case errors.Is(err, domain.ErrUserNotFound):
		if !s.staleFallback {
			s.log.Warn().Str("email", snapshot.Email).Msg("persisted session no longer matches the roster, dropping it")
			return session, nil
		}
		s.log.Warn().Str("email", snapshot.Email).Msg("persisted session no longer matches the roster, using snapshot")
		session.SignIn(snapshot)
	default:
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return session, nil
}

// ListUsers returns the roster entries matching filter, in roster order.
func (s *IdentityService) ListUsers(ctx context.Context, actor domain.Role, filter domain.UserFilter) ([]*domain.User, error) {
	if !domain.CanManageUsers(actor) {
		return nil, domain.ErrForbidden
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return domain.FilterUsers(users, filter), nil
}

func (s *IdentityService) RosterStats(ctx context.Context, actor domain.Role) (domain.RosterStats, error) {
	if !domain.CanManageUsers(actor) {
		return domain.RosterStats{}, domain.ErrForbidden
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return domain.RosterStats{}, fmt.Errorf("roster stats: %w", err)
	}
	return domain.ComputeRosterStats(users), nil
}

// AddUser appends a roster entry with a fresh id and today's joined date.
func (s *IdentityService) AddUser(ctx context.Context, actor domain.Role, in ports.AddUserInput) (*domain.User, error) {
	if !domain.CanManageUsers(actor) {
		return nil, domain.ErrForbidden
	}

	user := &domain.User{
		ID:         s.newID(),
		Email:      domain.NormalizeEmail(in.Email),
		Name:       in.Name,
		Role:       in.Role,
		Avatar:     in.Avatar,
		Department: in.Department,
		JoinedAt:   domain.DateOf(s.now()),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, user.Email, ""); err != nil {
		return nil, err
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("add user: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user added")
	return user, nil
}

// UpdateUser merges patch into the entry identified by id. The id and joined
// date never change.
func (s *IdentityService) UpdateUser(ctx context.Context, actor domain.Role, id string, patch ports.UserPatch) (*domain.User, error) {
	if !domain.CanManageUsers(actor) {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if patch.Email != nil {
		user.Email = domain.NormalizeEmail(*patch.Email)
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.Department != nil {
		user.Department = *patch.Department
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, user.Email, user.ID); err != nil {
		return nil, err
	}
	if patch.Password != nil {
		user.PasswordHash = ""
		if *patch.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("update user: hash password: %w", err)
			}
			user.PasswordHash = string(hash)
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user updated")
	return user, nil
}

// DeleteUser removes the entry identified by id. Open tasks assigned to the
// user are handed to domain.UnassignedAssignee first, unless another roster
// entry carries the same name. A failed release leaves the roster unchanged.
func (s *IdentityService) DeleteUser(ctx context.Context, actor domain.Role, id string) error {
	if !domain.CanManageUsers(actor) {
		return domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	released := 0
	if s.releaser != nil {
		shared, err := s.nameShared(ctx, user)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if shared {
			s.log.Warn().Str("user_id", id).Str("name", user.Name).Msg("name shared with another roster entry, keeping task assignments")
		} else {
			released, err = s.releaser.ReleaseAssignee(ctx, user.Name)
			if err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", id).Int("tasks_released", released).Msg("user deleted")
	return nil
}

// nameShared reports whether an entry other than u carries u's name.
func (s *IdentityService) nameShared(ctx context.Context, u *domain.User) (bool, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list users: %w", err)
	}
	for _, other := range users {
		if other.ID != u.ID && other.Name == u.Name {
			return true, nil
		}
	}
	return false, nil
}

// ensureEmailFree fails with ErrUserExists when email belongs to an entry
// other than selfID.
func (s *IdentityService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case existing.ID != selfID:
		return domain.ErrUserExists
	}
	return nil
}
