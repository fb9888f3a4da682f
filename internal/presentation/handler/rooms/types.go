package rooms

import (
	"time"

	"github.com/turndownhq/turndown/internal/domain"
)

// createRoomRequest represents the request to add a room to a dated board
type createRoomRequest struct {
	Number     string `json:"number" example:"204" minLength:"1"`       // Room number, unique within the board
	AssignedTo string `json:"assignedTo" example:"Maria" minLength:"1"` // Housekeeper the room is assigned to
}

// updateRoomRequest represents a single-field patch
type updateRoomRequest struct {
	Field string `json:"field" example:"status" enums:"status,notes"` // Which field to update
	Value string `json:"value" example:"Clean"`                       // New value for the field
}

// roomResponse represents one room row
type roomResponse struct {
	Number      string        `json:"number" example:"204"`
	Status      domain.Status `json:"status" example:"Dirty"`
	AssignedTo  string        `json:"assignedTo" example:"Maria"`
	Notes       string        `json:"notes" example:"extra towels"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// boardResponse represents the full room board for one date
type boardResponse struct {
	PropertyCode string         `json:"propertyCode" example:"H7KPQ2"`
	Date         string         `json:"date" example:"2024-06-01"`
	Rooms        []roomResponse `json:"rooms"`
}
