package domain

import "time"

// TaskStatus is the lifecycle state of a task. Values outside the four known
// states are still counted by the aggregation engine, under the reserved
// "unknown" bucket.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// KnownStatuses lists the four valid task statuses in display order.
var KnownStatuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusCompleted, StatusCancelled}

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Task is a single unit of work as stored by the task store. The core treats
// tasks as read-only input and never mutates them.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	AssignedTo string     `json:"assignedTo"`
	TeamID     string     `json:"team_id"`
	Department string     `json:"department"`
	Location   string     `json:"location"`
	CreatedAt  time.Time  `json:"created_at"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// TaskFilter narrows a task fetch beyond the admissible user set. Zero values
// mean "no restriction".
type TaskFilter struct {
	Status TaskStatus
	From   time.Time
	To     time.Time
}

// QuerySpec is one store-agnostic sub-query produced by the query planner.
// AssignedTo never exceeds the store's declared equality-list limit; wider
// admissible sets are split across multiple specs.
type QuerySpec struct {
	AssignedTo []string
	Filter     TaskFilter
}
