package events

import "time"

const ColumnLifecycleTopic = "hr.column.lifecycle.v1"

type ColumnDeletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	ColumnID   string    `json:"column_id"`
	ColumnName string    `json:"column_name"`
	OccurredAt time.Time `json:"occurred_at"`
}
