// Package analysis assembles per-company analysis records and runs
// the batch pipeline over the company registry.
package analysis

import "fmt"

// MissingIdentifierError marks a company that cannot be analyzed
// because it carries neither a ticker nor a name.
type MissingIdentifierError struct {
	CompanyID string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("company %s has no resolvable ticker or name", e.CompanyID)
}

// BatchStatus is the lifecycle state of the batch orchestrator.
type BatchStatus string

const (
	StatusIdle      BatchStatus = "idle"
	StatusRunning   BatchStatus = "running"
	StatusCompleted BatchStatus = "completed"
	StatusError     BatchStatus = "error"
)

// BatchFailure records one company skipped during a batch run.
type BatchFailure struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Reason      string `json:"reason"`
}

// BatchProgress is a point-in-time snapshot of the orchestrator.
type BatchProgress struct {
	Status    BatchStatus    `json:"status"`
	Total     int            `json:"total"`
	Processed int            `json:"processed"`
	Analyzed  int            `json:"analyzed"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}
