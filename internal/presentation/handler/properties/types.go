package properties

import "time"

// createPropertyRequest represents the request to register a new property
type createPropertyRequest struct {
	Name string `json:"name" example:"Seaside Inn" minLength:"1"` // Display name of the property
}

// addEmployeeRequest represents the request to add a housekeeper to a property
type addEmployeeRequest struct {
	Name string `json:"name" example:"Maria" minLength:"1"` // Employee name as shown on the board
}

// propertyResponse represents a property document
type propertyResponse struct {
	Code      string    `json:"code" example:"H7KPQ2"`                    // Six character access code
	Name      string    `json:"name" example:"Seaside Inn"`               // Display name
	Employees []string  `json:"employees"`                                // Known housekeepers
	CreatedAt time.Time `json:"createdAt" example:"2024-01-01T12:00:00Z"` // Registration timestamp
}
