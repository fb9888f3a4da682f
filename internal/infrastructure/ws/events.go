package ws

const (
	PropertySnapshot = "snapshot.property"
	RoomsSnapshot    = "snapshot.rooms"

	ErrorEvent    = "error"
	ScopeNotFound = "error.not_found"
)
