package ws

import (
	"fmt"
	"time"

	"github.com/turndownhq/turndown/internal/domain"
)

type Frame struct {
	Type  string `json:"type"`
	Scope string `json:"scope"`
	Data  any    `json:"data"`
}

// Payload structs
type PropertyPayload struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Employees []string `json:"employees"`
	CreatedAt string   `json:"createdAt"`
}

type RoomsPayload struct {
	PropertyCode string        `json:"propertyCode"`
	Date         string        `json:"date"`
	Rooms        []domain.Room `json:"rooms"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// PropertyScope is the subscription key for a property document.
func PropertyScope(code string) string {
	return fmt.Sprintf("prop:%s", code)
}

// RoomsScope is the subscription key for one (property, date) board.
func RoomsScope(code, date string) string {
	return fmt.Sprintf("rooms:%s:%s", code, date)
}

func NewPropertySnapshot(property *domain.Property) *Frame {
	employees := property.Employees
	if employees == nil {
		employees = []string{}
	}

	return &Frame{
		Type:  PropertySnapshot,
		Scope: PropertyScope(property.Code),
		Data: PropertyPayload{
			Code:      property.Code,
			Name:      property.Name,
			Employees: employees,
			CreatedAt: property.CreatedAt.Format(time.RFC3339),
		},
	}
}

func NewRoomsSnapshot(code, date string, rooms []domain.Room) *Frame {
	if rooms == nil {
		rooms = []domain.Room{}
	}

	return &Frame{
		Type:  RoomsSnapshot,
		Scope: RoomsScope(code, date),
		Data: RoomsPayload{
			PropertyCode: code,
			Date:         date,
			Rooms:        rooms,
		},
	}
}

func NewError(scope, message string) *Frame {
	return &Frame{
		Type:  ErrorEvent,
		Scope: scope,
		Data: ErrorPayload{
			Message: message,
		},
	}
}

func NewScopeNotFound(scope string) *Frame {
	return &Frame{
		Type:  ScopeNotFound,
		Scope: scope,
		Data: ErrorPayload{
			Code:    "SCOPE_NOT_FOUND",
			Message: "no such property",
		},
	}
}
