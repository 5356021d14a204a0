package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TaskStatus represents the lifecycle state of a feedback task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusResolved   TaskStatus = "resolved"
	StatusClosed     TaskStatus = "closed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type TaskType string

const (
	TypeProgrammatic TaskType = "programmatic"
	TypeSensitive    TaskType = "sensitive"
	TypeOutOfScope   TaskType = "out_of_scope"
)

// UnassignedAssignee replaces the assignee of tasks whose user was removed
// from the roster.
const UnassignedAssignee = "Unassigned"

// AnonymousReporter is recorded when feedback is submitted anonymously.
const AnonymousReporter = "Anonymous"

// referenceFormat renders a task sequence number, e.g. 7 as "FB-007".
const referenceFormat = "FB-%03d"

var referencePattern = regexp.MustCompile(`^FB-(\d+)$`)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTask       = errors.New("invalid task")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTaskClosed        = fmt.Errorf("%w: task is closed", ErrInvalidTransition)
	// ErrSubmissionInProgress reports a retry racing the submission that
	// owns its idempotency key.
	ErrSubmissionInProgress = errors.New("a submission with this idempotency key is in progress")
)

// validTransitions defines the allowed state machine transitions. Any open
// status may move to any status, itself included; closed is terminal.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusPending, StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusPending, StatusInProgress, StatusResolved, StatusClosed},
	StatusResolved:   {StatusPending, StatusInProgress, StatusResolved, StatusClosed},
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s TaskStatus) Terminal() bool {
	return s == StatusClosed
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (t TaskType) Valid() bool {
	switch t {
	case TypeProgrammatic, TypeSensitive, TypeOutOfScope:
		return true
	}
	return false
}

// Task is a feedback record tracked through its resolution lifecycle.
type Task struct {
	ID           string       `json:"id" bson:"_id"`
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	Status       TaskStatus   `json:"status" bson:"status"`
	Priority     TaskPriority `json:"priority" bson:"priority"`
	Type         TaskType     `json:"type" bson:"type"`
	Assignee     string       `json:"assignee" bson:"assignee"`
	Reporter     string       `json:"reporter" bson:"reporter"`
	Project      string       `json:"project" bson:"project"`
	Location     string       `json:"location" bson:"location"`
	Age          int          `json:"age,omitempty" bson:"age,omitempty"`
	Gender       string       `json:"gender,omitempty" bson:"gender,omitempty"`
	Channel      string       `json:"channel,omitempty" bson:"channel,omitempty"`
	ContactPhone string       `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
	DueDate      time.Time    `json:"due_date" bson:"due_date"`
	Version      int64        `json:"version" bson:"version"`
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Validate checks the classification fields and the temporal invariant.
func (t *Task) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidTask)
	case !t.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, t.Status)
	case !t.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, t.Priority)
	case !t.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTask, t.Type)
	case t.UpdatedAt.Before(t.CreatedAt):
		return fmt.Errorf("%w: updated_at precedes created_at", ErrInvalidTask)
	}
	return nil
}

// TransitionTo moves the task to next and stamps UpdatedAt with the date of now.
func (t *Task) TransitionTo(next TaskStatus, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if t.Status.Terminal() {
		return ErrTaskClosed
	}
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, t.Status, next)
	}
	t.Status = next
	t.touch(now)
	return nil
}

// Reassign changes the assignee. Closed tasks are frozen.
func (t *Task) Reassign(assignee string, now time.Time) error {
	if t.Status.Terminal() {
		return ErrTaskClosed
	}
	t.Assignee = assignee
	t.touch(now)
	return nil
}

// touch keeps UpdatedAt >= CreatedAt even when the clock lags the record.
func (t *Task) touch(now time.Time) {
	today := DateOf(now)
	if today.Before(t.CreatedAt) {
		today = t.CreatedAt
	}
	t.UpdatedAt = today
}

// DateOf truncates t to midnight UTC. All task and roster dates are dates.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// resolutionWindow is the default time allowed to resolve feedback of a
// given priority.
var resolutionWindow = map[TaskPriority]int{
	PriorityUrgent: 2,
	PriorityHigh:   5,
	PriorityMedium: 7,
	PriorityLow:    14,
}

// DefaultDueDate returns the due date for a task created at created.
func DefaultDueDate(p TaskPriority, created time.Time) time.Time {
	days, ok := resolutionWindow[p]
	if !ok {
		days = resolutionWindow[PriorityMedium]
	}
	return DateOf(created).AddDate(0, 0, days)
}

// FormatReference returns the human-readable reference of the n-th task.
func FormatReference(n int64) string {
	return fmt.Sprintf(referenceFormat, n)
}

// ReferenceNumber extracts the sequence number of a reference such as
// "FB-007", or 0 when id is not a task reference.
func ReferenceNumber(id string) int64 {
	m := referencePattern.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
