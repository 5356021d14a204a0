package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

// These tests need a disposable MongoDB; set TEST_MONGO_URI to run them.
func testDatabase(t *testing.T) (*UserRepository, *TaskRepository) {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "crm_test_" + time.Now().Format("150405000")})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	users, tasks := NewUserRepository(db), NewTaskRepository(db)
	if err := EnsureIndexes(ctx, users, tasks); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return users, tasks
}

func TestUserRepository_Lifecycle(t *testing.T) {
	users, _ := testDatabase(t)
	ctx := context.Background()

	u := &domain.User{ID: "1", Email: "admin@ngo.org", Name: "John Admin", Role: domain.RoleAdmin}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := users.Create(ctx, &domain.User{ID: "2", Email: "admin@ngo.org", Name: "Dup", Role: domain.RoleViewer}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}

	stale, _ := users.FindByID(ctx, "1")
	u.Name = "John A."
	if err := users.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := users.Update(ctx, stale); !errors.Is(err, domain.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}

	if err := users.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := users.Delete(ctx, "1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTaskRepository_ReferencesFollowSeed(t *testing.T) {
	_, tasks := testDatabase(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"FB-002", "FB-001"} {
		task := &domain.Task{ID: id, Status: domain.StatusPending, Priority: domain.PriorityLow, Type: domain.TypeProgrammatic, CreatedAt: day, UpdatedAt: day, DueDate: day}
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	ref, err := tasks.NextReference(ctx)
	if err != nil {
		t.Fatalf("next reference: %v", err)
	}
	if ref != "FB-003" {
		t.Errorf("expected FB-003, got %q", ref)
	}

	list, err := tasks.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "FB-001" {
		t.Errorf("expected reference order, got %v", list)
	}
}

func TestTaskRepository_ReplaceAssigneeStampsUpdatedAt(t *testing.T) {
	_, tasks := testDatabase(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, task := range []*domain.Task{
		{ID: "FB-001", Status: domain.StatusPending, Assignee: "Sarah Focal"},
		{ID: "FB-002", Status: domain.StatusClosed, Assignee: "Sarah Focal"},
	} {
		task.Priority, task.Type = domain.PriorityLow, domain.TypeProgrammatic
		task.CreatedAt, task.UpdatedAt, task.DueDate = day, day, day
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	at := time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC)
	n, err := tasks.ReplaceAssignee(ctx, "Sarah Focal", domain.UnassignedAssignee, at)
	if err != nil {
		t.Fatalf("replace assignee: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 task released, got %d", n)
	}

	open, _ := tasks.FindByID(ctx, "FB-001")
	if open.Assignee != domain.UnassignedAssignee || !open.UpdatedAt.Equal(domain.DateOf(at)) {
		t.Errorf("expected released task stamped %s, got %q at %s", domain.DateOf(at), open.Assignee, open.UpdatedAt)
	}
	closed, _ := tasks.FindByID(ctx, "FB-002")
	if closed.Assignee != "Sarah Focal" || !closed.UpdatedAt.Equal(day) {
		t.Errorf("closed task must be untouched, got %q at %s", closed.Assignee, closed.UpdatedAt)
	}
}
