package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BoardEventType string

const (
	EventPropertyCreated BoardEventType = "property_created"
	EventEmployeeAdded   BoardEventType = "employee_added"
	EventRoomCreated     BoardEventType = "room_created"
	EventStatusChanged   BoardEventType = "status_changed"
	EventNotesChanged    BoardEventType = "notes_changed"
)

// BoardAuditLog records who did what to a property's board. Entries are
// append-only and expired by a TTL index on the storage side.
type BoardAuditLog struct {
	ID           string         `bson:"_id" json:"id"`
	PropertyCode string         `bson:"property_code" json:"propertyCode"`
	EventType    BoardEventType `bson:"event_type" json:"eventType"`
	Timestamp    time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata     map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type BoardAuditRepository interface {
	Log(ctx context.Context, log *BoardAuditLog) error
	GetByProperty(ctx context.Context, code string, limit int) ([]BoardAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewPropertyCreatedLog(code, name string) *BoardAuditLog {
	return &BoardAuditLog{
		ID:           uuid.NewString(),
		PropertyCode: code,
		EventType:    EventPropertyCreated,
		Timestamp:    time.Now(),
		Metadata: map[string]any{
			"name": name,
		},
	}
}

func NewEmployeeAddedLog(code, employee string) *BoardAuditLog {
	return &BoardAuditLog{
		ID:           uuid.NewString(),
		PropertyCode: code,
		EventType:    EventEmployeeAdded,
		Timestamp:    time.Now(),
		Metadata: map[string]any{
			"employee": employee,
		},
	}
}

func NewRoomCreatedLog(code, date, number, assignedTo string) *BoardAuditLog {
	return &BoardAuditLog{
		ID:           uuid.NewString(),
		PropertyCode: code,
		EventType:    EventRoomCreated,
		Timestamp:    time.Now(),
		Metadata: map[string]any{
			"date":        date,
			"number":      number,
			"assigned_to": assignedTo,
		},
	}
}

func NewStatusChangedLog(code, date, number string, status Status) *BoardAuditLog {
	return &BoardAuditLog{
		ID:           uuid.NewString(),
		PropertyCode: code,
		EventType:    EventStatusChanged,
		Timestamp:    time.Now(),
		Metadata: map[string]any{
			"date":   date,
			"number": number,
			"status": string(status),
		},
	}
}

func NewNotesChangedLog(code, date, number string) *BoardAuditLog {
	return &BoardAuditLog{
		ID:           uuid.NewString(),
		PropertyCode: code,
		EventType:    EventNotesChanged,
		Timestamp:    time.Now(),
		Metadata: map[string]any{
			"date":   date,
			"number": number,
		},
	}
}
