package lifecycle

import "strings"

// TaskStatus is the status of one unit of work under a CAPA. This engine only
// observes task statuses, it never mutates them.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// IsTerminalTaskStatus reports whether no further progress is expected from a
// task. Cascade evaluation closes a CAPA once every task is terminal.
func IsTerminalTaskStatus(status TaskStatus) bool {
	return status == TaskCompleted || status == TaskCancelled
}

// ParseTaskStatus normalizes user input to a known task status.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return status, true
	}
	return "", false
}
