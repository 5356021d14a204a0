package domain

import "time"

// TaskStats are simple tallies over a task collection.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Urgent     int `json:"urgent"`
	Overdue    int `json:"overdue"`
}

// ComputeStats tallies tasks relative to now. A task is overdue when its due
// date is strictly before today's date and it is not closed.
func ComputeStats(tasks []*Task, now time.Time) TaskStats {
	today := DateOf(now)
	s := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			s.Pending++
		case StatusInProgress:
			s.InProgress++
		case StatusResolved:
			s.Resolved++
		}
		if t.Priority == PriorityUrgent {
			s.Urgent++
		}
		if t.Status != StatusClosed && DateOf(t.DueDate).Before(today) {
			s.Overdue++
		}
	}
	return s
}

// Analytics breaks the task collection down for the analytics view.
type Analytics struct {
	Total          int            `json:"total"`
	ByType         map[string]int `json:"by_type"`
	ByProject      map[string]int `json:"by_project"`
	ByPriority     map[string]int `json:"by_priority"`
	ByStatus       map[string]int `json:"by_status"`
	ResolutionRate float64        `json:"resolution_rate"`
}

// ComputeAnalytics counts tasks per dimension. ResolutionRate is the share of
// resolved or closed tasks, 0 for an empty collection.
func ComputeAnalytics(tasks []*Task) Analytics {
	a := Analytics{
		Total:      len(tasks),
		ByType:     make(map[string]int),
		ByProject:  make(map[string]int),
		ByPriority: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	done := 0
	for _, t := range tasks {
		a.ByType[string(t.Type)]++
		a.ByProject[t.Project]++
		a.ByPriority[string(t.Priority)]++
		a.ByStatus[string(t.Status)]++
		if t.Status == StatusResolved || t.Status == StatusClosed {
			done++
		}
	}
	if len(tasks) > 0 {
		a.ResolutionRate = float64(done) / float64(len(tasks))
	}
	return a
}
