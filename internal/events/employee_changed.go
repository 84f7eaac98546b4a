package events

import "time"

const EmployeeChangedTopic = "hr.employee.changed.v1"

const (
	EmployeeCreated    = "employee_created"
	EmployeeUpdated    = "employee_updated"
	EmployeeArchived   = "employee_archived"
	EmployeeTerminated = "employee_terminated"
	EmployeeDeleted    = "employee_deleted"
)

// EmployeeSnapshot carries the fields change classification needs: the
// free-text-searchable identity fields plus the lifecycle flags.
type EmployeeSnapshot struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Rank         string `json:"rank"`
	SSN          string `json:"ssn"`
	IsArchived   bool   `json:"is_archived"`
	IsTerminated bool   `json:"is_terminated"`
}

// EmployeeChangedEvent is published through the outbox on every successful
// employee mutation. Old is nil for creates.
type EmployeeChangedEvent struct {
	EventType  string            `json:"event_type"`
	RequestID  string            `json:"request_id,omitempty"`
	EmployeeID string            `json:"employee_id"`
	Old        *EmployeeSnapshot `json:"old,omitempty"`
	New        *EmployeeSnapshot `json:"new,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
