package app

import "time"

// Operation outcomes.
const (
	StatusSuccess    = "success"
	StatusNothingNew = "nothing_new"
	StatusError      = "error"
)

// Operation tracks one CLI invocation. It starts out successful; the app
// downgrades the status when a step fails or finds nothing to do.
type Operation struct {
	Name      string
	RunID     string
	Status    string
	StartedAt time.Time
}

// NewOperation creates an operation record started now.
func NewOperation(name, runID string) *Operation {
	return &Operation{
		Name:      name,
		RunID:     runID,
		Status:    StatusSuccess,
		StartedAt: time.Now().UTC(),
	}
}

// Failed reports whether the operation ended in an error.
func (op *Operation) Failed() bool {
	return op.Status == StatusError
}
