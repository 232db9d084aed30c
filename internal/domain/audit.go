package domain

import "time"

// TaskStatus is the terminal state of one audited task execution.
type TaskStatus string

const (
	TaskCompleted TaskStatus = "completed"
	TaskError     TaskStatus = "error"
)

// AuditEntry is one append-only record of a decision and its outcome.
// CycleID groups every entry written during a single governor cycle.
type AuditEntry struct {
	ID          int64
	CycleID     string
	TaskType    string
	Params      string
	Result      string
	Status      TaskStatus
	Error       string
	Duration    time.Duration
	StartedAt   time.Time
	CompletedAt time.Time
}
