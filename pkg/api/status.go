package api

// Status is item (pipeline or task) status
type Status string

const (
	// StatusCreated default status, item is created and not started yet
	StatusCreated Status = "CREATED"

	// StatusRunning status for items running
	StatusRunning Status = "RUNNING"

	// StatusCompleted status for items completed
	StatusCompleted Status = "COMPLETED"

	// StatusFailed status for items failed
	StatusFailed Status = "FAILED"

	// StatusCancelled status for tasks stopped because a sibling failed or the pipeline timed out
	StatusCancelled Status = "CANCELLED"
)

// Finished returns true if the status is considered final
func (s Status) Finished() bool {
	for _, fs := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		if s == fs {
			return true
		}
	}
	return false
}
