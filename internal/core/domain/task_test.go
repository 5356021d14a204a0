package domain

import (
	"errors"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestTaskStatus_Transitions(t *testing.T) {
	open := []TaskStatus{StatusPending, StatusInProgress, StatusResolved}
	all := append(open, StatusClosed)

	for _, from := range open {
		for _, to := range all {
			if !from.CanTransitionTo(to) {
				t.Errorf("expected %s -> %s to be allowed", from, to)
			}
		}
	}
	for _, to := range all {
		if StatusClosed.CanTransitionTo(to) {
			t.Errorf("closed must be terminal, but closed -> %s was allowed", to)
		}
	}
}

func TestTask_TransitionTo(t *testing.T) {
	task := &Task{ID: "FB-001", Status: StatusPending, CreatedAt: day(15), UpdatedAt: day(15)}

	if err := task.TransitionTo(StatusResolved, day(21).Add(13*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != StatusResolved || !task.UpdatedAt.Equal(day(21)) {
		t.Errorf("unexpected task after transition: %+v", task)
	}

	if err := task.TransitionTo("archived", day(22)); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	if err := task.TransitionTo(StatusClosed, day(22)); err != nil {
		t.Fatalf("closing failed: %v", err)
	}
	err := task.TransitionTo(StatusClosed, day(23))
	if !errors.Is(err, ErrTaskClosed) {
		t.Errorf("expected ErrTaskClosed, got %v", err)
	}
	if !task.UpdatedAt.Equal(day(22)) {
		t.Error("rejected transition must not touch updated_at")
	}
}

func TestTask_TouchNeverPrecedesCreation(t *testing.T) {
	task := &Task{ID: "FB-001", Status: StatusPending, CreatedAt: day(15), UpdatedAt: day(15)}

	if err := task.TransitionTo(StatusInProgress, day(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.UpdatedAt.Equal(day(15)) {
		t.Errorf("updated_at must not precede created_at, got %v", task.UpdatedAt)
	}
	if err := task.Validate(); err == nil {
		t.Error("task without priority or type must fail validation")
	}
}

func TestTask_Reassign(t *testing.T) {
	task := &Task{ID: "FB-002", Status: StatusClosed, Assignee: "John Admin", CreatedAt: day(14), UpdatedAt: day(16)}
	if err := task.Reassign("Sarah Focal", day(20)); !errors.Is(err, ErrTaskClosed) {
		t.Errorf("expected ErrTaskClosed, got %v", err)
	}
	if task.Assignee != "John Admin" {
		t.Error("closed task must keep its assignee")
	}
}

func TestDefaultDueDate(t *testing.T) {
	created := time.Date(2024, 1, 10, 17, 45, 0, 0, time.UTC)
	cases := map[TaskPriority]time.Time{
		PriorityUrgent: day(12),
		PriorityHigh:   day(15),
		PriorityMedium: day(17),
		PriorityLow:    day(24),
		"unknown":      day(17),
	}
	for p, want := range cases {
		if got := DefaultDueDate(p, created); !got.Equal(want) {
			t.Errorf("priority %q: expected %v, got %v", p, want, got)
		}
	}
}

func sampleTasks() []*Task {
	return []*Task{
		{ID: "FB-001", Title: "Water pump not working", Description: "Village A", Status: StatusPending, Priority: PriorityHigh, Type: TypeProgrammatic, Project: "Water", DueDate: day(20)},
		{ID: "FB-002", Title: "School supplies", Status: StatusInProgress, Priority: PriorityMedium, Type: TypeProgrammatic, Project: "Education", DueDate: day(25)},
		{ID: "FB-003", Title: "Staff complaint", Status: StatusPending, Priority: PriorityUrgent, Type: TypeSensitive, Project: "Health", DueDate: day(18)},
		{ID: "FB-004", Title: "Vocational training", Status: StatusResolved, Priority: PriorityLow, Type: TypeOutOfScope, Project: "Youth", DueDate: day(19)},
		{ID: "FB-005", Title: "Clinic hours", Status: StatusClosed, Priority: PriorityMedium, Type: TypeProgrammatic, Project: "Health", DueDate: day(10)},
	}
}

func TestComputeStats(t *testing.T) {
	got := ComputeStats(sampleTasks(), day(20).Add(23*time.Hour))
	// FB-003 and FB-004 are past due. FB-001 is due today. FB-005 is closed.
	want := TaskStats{Total: 5, Pending: 2, InProgress: 1, Resolved: 1, Urgent: 1, Overdue: 2}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if empty := ComputeStats(nil, day(20)); empty != (TaskStats{}) {
		t.Errorf("expected zero stats, got %+v", empty)
	}
}

func TestComputeAnalytics(t *testing.T) {
	a := ComputeAnalytics(sampleTasks())
	if a.ByStatus["pending"] != 2 || a.ByProject["Health"] != 2 || a.ByPriority["medium"] != 2 {
		t.Errorf("unexpected breakdown: %+v", a)
	}
	if a.ResolutionRate != 0.4 {
		t.Errorf("expected resolution rate 0.4, got %v", a.ResolutionRate)
	}
	if ComputeAnalytics(nil).ResolutionRate != 0 {
		t.Error("empty collection must have zero resolution rate")
	}
}

func TestFilterTasks(t *testing.T) {
	tasks := sampleTasks()
	cases := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{"pending keeps order", TaskFilter{Status: "pending", Priority: FilterAll, Type: FilterAll}, []string{"FB-001", "FB-003"}},
		{"empty filter", TaskFilter{}, []string{"FB-001", "FB-002", "FB-003", "FB-004", "FB-005"}},
		{"search title case-insensitive", TaskFilter{Search: "WATER"}, []string{"FB-001"}},
		{"search description", TaskFilter{Search: "village"}, []string{"FB-001"}},
		{"search id", TaskFilter{Search: "fb-004"}, []string{"FB-004"}},
		{"conjunction", TaskFilter{Type: "programmatic", Priority: "medium"}, []string{"FB-002", "FB-005"}},
		{"no match", TaskFilter{Status: "pending", Type: "out_of_scope"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterTasks(tasks, tc.filter)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d tasks, got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestReferenceNumber(t *testing.T) {
	cases := map[string]int64{"FB-001": 1, "FB-042": 42, "FB-1234": 1234, "fb-001": 0, "legacy": 0, "": 0}
	for id, want := range cases {
		if got := ReferenceNumber(id); got != want {
			t.Errorf("ReferenceNumber(%q) = %d, want %d", id, got, want)
		}
	}
	if FormatReference(7) != "FB-007" {
		t.Errorf("unexpected reference %q", FormatReference(7))
	}
}
