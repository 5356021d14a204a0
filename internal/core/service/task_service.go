package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

const maxDerivedTitle = 60

// TaskService is the task/feedback lifecycle manager.
type TaskService struct {
	repo   ports.TaskRepository
	guard  ports.SubmissionGuard
	logger zerolog.Logger
	now    func() time.Time
}

// NewTaskService wires the lifecycle manager. guard may be nil, which
// disables idempotent submissions.
func NewTaskService(repo ports.TaskRepository, guard ports.SubmissionGuard, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, guard: guard, logger: logger, now: time.Now}
}

// WithClock returns a copy of s reading the current time from now.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	c := *s
	c.now = now
	return &c
}

// Submit records feedback from a focal person as a new pending task. When the
// input carries an idempotency key the actor already used, the task created by
// the first submission is returned without side effects; a retry racing that
// submission fails with domain.ErrSubmissionInProgress.
func (s *TaskService) Submit(ctx context.Context, actor *domain.User, in ports.SubmitFeedbackInput) (*domain.Task, error) {
	if actor == nil || !domain.CanSubmitFeedback(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if err := validateFeedback(in); err != nil {
		return nil, err
	}

	key := ""
	if in.IdempotencyKey != "" && s.guard != nil {
		key = submissionKey(actor, in.IdempotencyKey)
		existing, claimed, err := s.claim(ctx, key)
		if err != nil || existing != nil {
			return existing, err
		}
		if !claimed {
			key = ""
		}
	}

	task, err := s.create(ctx, actor, in)
	if err != nil {
		if key != "" {
			if rerr := s.guard.Release(ctx, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if key != "" {
		if err := s.guard.Complete(ctx, key, task.ID); err != nil {
			s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("type", string(task.Type)).
		Str("priority", string(task.Priority)).
		Msg("feedback submitted")
	return task, nil
}

// claim reserves key for a new submission. It returns the task of an earlier
// submission under the same key, or claimed=false when the guard could not
// be consulted and the submission proceeds unguarded.
func (s *TaskService) claim(ctx context.Context, key string) (*domain.Task, bool, error) {
	id, claimed, err := s.guard.Claim(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, submitting anyway")
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}
	if id == "" {
		return nil, false, domain.ErrSubmissionInProgress
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("submit feedback: replay %s: %w", id, err)
	}
	s.logger.Info().Str("idempotency_key", key).Str("task_id", id).Msg("idempotent replay")
	return existing, false, nil
}

// create builds and stores the task for a validated feedback form.
func (s *TaskService) create(ctx context.Context, actor *domain.User, in ports.SubmitFeedbackInput) (*domain.Task, error) {
	id, err := s.repo.NextReference(ctx)
	if err != nil {
		return nil, fmt.Errorf("submit feedback: allocate reference: %w", err)
	}

	today := domain.DateOf(s.now())
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	due := domain.DefaultDueDate(priority, today)
	if !in.DueDate.IsZero() {
		due = domain.DateOf(in.DueDate)
	}
	reporter := actor.Name
	if in.Anonymous {
		reporter = domain.AnonymousReporter
	}
	assignee := in.Assignee
	if assignee == "" {
		assignee = domain.UnassignedAssignee
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = deriveTitle(in.Details)
	}

	task := &domain.Task{
		ID:           id,
		Title:        title,
		Description:  in.Details,
		Status:       domain.StatusPending,
		Priority:     priority,
		Type:         in.Type,
		Assignee:     assignee,
		Reporter:     reporter,
		Project:      in.Project,
		Location:     in.Location,
		Age:          in.Age,
		Gender:       in.Gender,
		Channel:      in.Channel,
		ContactPhone: in.Phone,
		CreatedAt:    today,
		UpdatedAt:    today,
		DueDate:      due,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, fmt.Errorf("submit feedback: %w", err)
	}
	return task, nil
}

// submissionKey scopes an idempotency key to the submitting user.
func submissionKey(actor *domain.User, key string) string {
	return actor.ID + ":" + key
}

func (s *TaskService) Get(ctx context.Context, actor domain.Role, id string) (*domain.Task, error) {
	if !actor.Valid() {
		return nil, domain.ErrForbidden
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// List returns the tasks matching filter in creation order.
func (s *TaskService) List(ctx context.Context, actor domain.Role, filter domain.TaskFilter) ([]*domain.Task, error) {
	if !actor.Valid() {
		return nil, domain.ErrForbidden
	}
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return domain.FilterTasks(tasks, filter), nil
}

// Stats recomputes the task tallies from scratch.
func (s *TaskService) Stats(ctx context.Context, actor domain.Role) (domain.TaskStats, error) {
	if !actor.Valid() {
		return domain.TaskStats{}, domain.ErrForbidden
	}
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return domain.TaskStats{}, fmt.Errorf("task stats: %w", err)
	}
	return domain.ComputeStats(tasks, s.now()), nil
}

func (s *TaskService) Analytics(ctx context.Context, actor domain.Role) (domain.Analytics, error) {
	if !domain.CanViewAnalytics(actor) {
		return domain.Analytics{}, domain.ErrForbidden
	}
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("analytics: %w", err)
	}
	return domain.ComputeAnalytics(tasks), nil
}

// UpdateStatus moves a task through the state machine on behalf of actor.
// Closed tasks reject every transition.
func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.Role, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.CanEdit(actor) {
		return nil, domain.ErrForbidden
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	from := task.Status
	if err := task.TransitionTo(status, s.now()); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.logger.Info().
		Str("task_id", id).
		Str("from", string(from)).
		Str("to", string(status)).
		Str("actor_role", string(actor)).
		Msg("task status updated")
	return task, nil
}

// Assign hands an open task to assignee.
func (s *TaskService) Assign(ctx context.Context, actor domain.Role, id, assignee string) (*domain.Task, error) {
	if !domain.CanEdit(actor) {
		return nil, domain.ErrForbidden
	}
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, fmt.Errorf("%w: assignee is required", domain.ErrInvalidTask)
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}
	if err := task.Reassign(assignee, s.now()); err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}

	s.logger.Info().Str("task_id", id).Str("assignee", assignee).Msg("task reassigned")
	return task, nil
}

// DeleteTask removes a task. Only admins may delete.
func (s *TaskService) DeleteTask(ctx context.Context, actor domain.Role, id string) error {
	if !domain.CanDeleteTasks(actor) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// ReleaseAssignee satisfies AssignmentReleaser.
func (s *TaskService) ReleaseAssignee(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	n, err := s.repo.ReplaceAssignee(ctx, name, domain.UnassignedAssignee, s.now())
	if err != nil {
		return 0, fmt.Errorf("release assignee: %w", err)
	}
	return n, nil
}

// validateFeedback enforces the feedback form rules for callers that bypass
// the HTTP validator.
func validateFeedback(in ports.SubmitFeedbackInput) error {
	details := strings.TrimSpace(in.Details)
	switch {
	case utf8.RuneCountInString(details) < 10 || utf8.RuneCountInString(details) > 1000:
		return fmt.Errorf("%w: details must be between 10 and 1000 characters", domain.ErrInvalidTask)
	case in.Age < 0 || in.Age > 120:
		return fmt.Errorf("%w: age must be between 1 and 120", domain.ErrInvalidTask)
	case strings.TrimSpace(in.Project) == "":
		return fmt.Errorf("%w: project is required", domain.ErrInvalidTask)
	case utf8.RuneCountInString(strings.TrimSpace(in.Location)) < 2:
		return fmt.Errorf("%w: location must be at least 2 characters", domain.ErrInvalidTask)
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown feedback type %q", domain.ErrInvalidTask, in.Type)
	case in.Priority != "" && !in.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidTask, in.Priority)
	case in.Channel == "phone" && len(in.Phone) < 10:
		return fmt.Errorf("%w: phone number is required when phone is the contact method", domain.ErrInvalidTask)
	}
	return nil
}

// deriveTitle shortens feedback details into a one-line title.
func deriveTitle(details string) string {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(details), "\n", 2)[0])
	if utf8.RuneCountInString(line) <= maxDerivedTitle {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:maxDerivedTitle])) + "..."
}
