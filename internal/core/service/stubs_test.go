package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   []*domain.User
	listErr error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{}
	for _, u := range users {
		r.users = append(r.users, u.Clone())
	}
	return r
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.ID == user.ID || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users = append(r.users, user.Clone())
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	for i, u := range r.users {
		if u.ID != user.ID {
			continue
		}
		if u.Version != user.Version {
			return domain.ErrVersionConflict
		}
		user.Version++
		r.users[i] = user.Clone()
		return nil
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubSessionStore struct {
	slots   map[string]*domain.User
	saveErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{slots: make(map[string]*domain.User)}
}

func (s *stubSessionStore) Load(_ context.Context, key string) (*domain.User, error) {
	u, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return u.Clone(), nil
}

func (s *stubSessionStore) Save(_ context.Context, key string, user *domain.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.slots[key] = user.Clone()
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, key string) error {
	delete(s.slots, key)
	return nil
}

type stubTaskRepo struct {
	tasks      []*domain.Task
	seq        int
	createErr  error
	replaceErr error
}

func newStubTaskRepo(tasks ...*domain.Task) *stubTaskRepo {
	r := &stubTaskRepo{seq: len(tasks)}
	for _, t := range tasks {
		r.tasks = append(r.tasks, t.Clone())
	}
	return r
}

func (r *stubTaskRepo) List(_ context.Context) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.tasks = append(r.tasks, task.Clone())
	return nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	for i, t := range r.tasks {
		if t.ID != task.ID {
			continue
		}
		if t.Version != task.Version {
			return domain.ErrVersionConflict
		}
		task.Version++
		r.tasks[i] = task.Clone()
		return nil
	}
	return domain.ErrTaskNotFound
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *stubTaskRepo) NextReference(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("FB-%03d", r.seq), nil
}

func (r *stubTaskRepo) ReplaceAssignee(_ context.Context, from, to string, at time.Time) (int, error) {
	if r.replaceErr != nil {
		return 0, r.replaceErr
	}
	n := 0
	for _, t := range r.tasks {
		if t.Assignee == from && t.Reassign(to, at) == nil {
			n++
		}
	}
	return n, nil
}

type stubGuard struct {
	seen map[string]string
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: make(map[string]string)}
}

func (g *stubGuard) Claim(_ context.Context, key string) (string, bool, error) {
	if id, ok := g.seen[key]; ok {
		return id, false, nil
	}
	g.seen[key] = ""
	return "", true, nil
}

func (g *stubGuard) Complete(_ context.Context, key, taskID string) error {
	g.seen[key] = taskID
	return nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	delete(g.seen, key)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mockRoster() []*domain.User {
	return []*domain.User{
		{ID: "1", Email: "admin@ngo.org", Name: "John Admin", Role: domain.RoleAdmin, Department: "Management", JoinedAt: date(2023, 1, 15)},
		{ID: "2", Email: "focal@ngo.org", Name: "Sarah Focal", Role: domain.RoleFocalPerson, Department: "Field Operations", JoinedAt: date(2023, 2, 20)},
		{ID: "3", Email: "viewer@ngo.org", Name: "Mike Viewer", Role: domain.RoleViewer, Department: "Monitoring", JoinedAt: date(2023, 3, 10)},
	}
}

func mockTasks() []*domain.Task {
	return []*domain.Task{
		{ID: "FB-001", Title: "Water pump not working in Village A", Status: domain.StatusPending, Priority: domain.PriorityHigh, Type: domain.TypeProgrammatic, Assignee: "Sarah Focal", Project: "Water & Sanitation Project", CreatedAt: date(2024, 1, 15), UpdatedAt: date(2024, 1, 15), DueDate: date(2024, 1, 20)},
		{ID: "FB-002", Title: "Request for additional school supplies", Status: domain.StatusInProgress, Priority: domain.PriorityMedium, Type: domain.TypeProgrammatic, Assignee: "John Admin", Project: "Education Support Program", CreatedAt: date(2024, 1, 14), UpdatedAt: date(2024, 1, 16), DueDate: date(2024, 1, 25)},
		{ID: "FB-003", Title: "Confidential complaint about staff behavior", Status: domain.StatusPending, Priority: domain.PriorityUrgent, Type: domain.TypeSensitive, Assignee: "John Admin", Project: "Healthcare Initiative", CreatedAt: date(2024, 1, 16), UpdatedAt: date(2024, 1, 16), DueDate: date(2024, 1, 18)},
		{ID: "FB-004", Title: "Suggestion for new vocational training", Status: domain.StatusResolved, Priority: domain.PriorityLow, Type: domain.TypeOutOfScope, Assignee: "Sarah Focal", Project: "Youth Skills Development", CreatedAt: date(2024, 1, 10), UpdatedAt: date(2024, 1, 17), DueDate: date(2024, 1, 30)},
		{ID: "FB-005", Title: "Health clinic opening hours", Status: domain.StatusPending, Priority: domain.PriorityMedium, Type: domain.TypeProgrammatic, Assignee: "Sarah Focal", Project: "Healthcare Initiative", CreatedAt: date(2024, 1, 17), UpdatedAt: date(2024, 1, 17), DueDate: date(2024, 1, 24)},
	}
}
