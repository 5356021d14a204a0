package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks []*domain.Task
	seq   int64
}

// NewTaskRepository returns a repository pre-loaded with tasks in creation
// order. The reference sequence continues after the highest seeded reference.
func NewTaskRepository(tasks ...*domain.Task) *TaskRepository {
	r := &TaskRepository{}
	for _, t := range tasks {
		r.tasks = append(r.tasks, t.Clone())
		if n := domain.ReferenceNumber(t.ID); n > r.seq {
			r.seq = n
		}
	}
	return r
}

func (r *TaskRepository) List(_ context.Context) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *TaskRepository) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i].Clone(), nil
	}
	return nil, domain.ErrTaskNotFound
}

func (r *TaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(task.ID) >= 0 {
		return fmt.Errorf("%w: reference %s already exists", domain.ErrInvalidTask, task.ID)
	}
	r.tasks = append(r.tasks, task.Clone())
	return nil
}

func (r *TaskRepository) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(task.ID)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	if r.tasks[i].Version != task.Version {
		return domain.ErrVersionConflict
	}
	task.Version++
	r.tasks[i] = task.Clone()
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

func (r *TaskRepository) NextReference(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	return domain.FormatReference(r.seq), nil
}

func (r *TaskRepository) ReplaceAssignee(_ context.Context, from, to string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.tasks {
		if t.Assignee != from {
			continue
		}
		if err := t.Reassign(to, at); err != nil {
			continue
		}
		t.Version++
		n++
	}
	return n, nil
}

func (r *TaskRepository) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
