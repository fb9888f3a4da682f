package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	PropertyCode string `json:"propertyCode"`
	Data         []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventPropertyCreated = "property.created"
	EventEmployeeAdded   = "property.employee_added"
	EventRoomCreated     = "room.created"
	EventStatusChanged   = "room.status_changed"
	EventNotesChanged    = "room.notes_changed"
)
