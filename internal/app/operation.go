package app

import (
	"errors"

	"series-go/internal/series"
)

// Operation statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusAborted = "aborted"
	StatusError   = "error"
)

// Operation tracks a CLI operation that may mutate the database.
// Operations are created in memory with ID=0. Only DB-mutating commands
// persist them (giving them an auto-increment ID from the database).
type Operation struct {
	ID           int64
	InvocationID string
	Operation    string
	Parameters   string
	Status       string
}

// NewOperation creates a new in-memory operation.
func NewOperation(invocationID, operation, parameters string) *Operation {
	return &Operation{
		InvocationID: invocationID,
		Operation:    operation,
		Parameters:   parameters,
		Status:       StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Record sets the status from the outcome of a step. A failed or aborted
// status is never reset to success.
func (op *Operation) Record(err error) {
	switch {
	case err == nil:
	case errors.Is(err, series.ErrAborted):
		if op.Status == StatusSuccess {
			op.Status = StatusAborted
		}
	default:
		op.Status = StatusError
	}
}

// Committable reports whether the changes of the operation should be kept.
func (op *Operation) Committable() bool {
	return op.Status == StatusSuccess
}
