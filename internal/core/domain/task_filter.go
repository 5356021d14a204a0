package domain

import "strings"

// FilterAll disables a filter criterion.
const FilterAll = "all"

// TaskFilter carries the independently optional task list criteria.
type TaskFilter struct {
	Search   string
	Status   string
	Priority string
	Type     string
}

// FilterTasks applies every criterion of f conjunctively. The relative order
// of tasks is preserved.
func FilterTasks(tasks []*Task, f TaskFilter) []*Task {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if term != "" && !taskMatches(t, term) {
			continue
		}
		if !matchesOption(f.Status, string(t.Status)) ||
			!matchesOption(f.Priority, string(t.Priority)) ||
			!matchesOption(f.Type, string(t.Type)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func taskMatches(t *Task, term string) bool {
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term) ||
		strings.Contains(strings.ToLower(t.ID), term)
}

// matchesOption is an exact match unless want is empty or "all".
func matchesOption(want, got string) bool {
	if want == "" || want == FilterAll {
		return true
	}
	return want == got
}
