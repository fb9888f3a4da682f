package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists for this date")
)

// Status is the cleaning state of a room. Dirty is the creation state; the
// rest are set by staff as the day progresses.
type Status string

const (
	StatusDirty      Status = "Dirty"
	StatusNoAnswer   Status = "No Answer"
	StatusStayOver   Status = "Stay Over"
	StatusCheckedOut Status = "Checked Out"
	StatusClean      Status = "Clean"
)

// Statuses lists every status in selector order.
var Statuses = []Status{
	StatusDirty,
	StatusNoAnswer,
	StatusStayOver,
	StatusCheckedOut,
	StatusClean,
}

func (s Status) Valid() bool {
	switch s {
	case StatusDirty, StatusNoAnswer, StatusStayOver, StatusCheckedOut, StatusClean:
		return true
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
	return s, nil
}

// RoomField names the two fields a client may patch individually. Updates
// never replace the whole document.
type RoomField string

const (
	FieldStatus RoomField = "status"
	FieldNotes  RoomField = "notes"
)

func (f RoomField) Valid() bool {
	return f == FieldStatus || f == FieldNotes
}

// Room is the per-date housekeeping record for one physical room. Number is
// the unique key within its (property, date) scope. LastUpdated is assigned
// by the server on every write.
type Room struct {
	PropertyCode string    `bson:"property_code" json:"propertyCode"`
	Date         string    `bson:"date" json:"date"`
	Number       string    `bson:"number" json:"number"`
	Status       Status    `bson:"status" json:"status"`
	AssignedTo   string    `bson:"assigned_to" json:"assignedTo"`
	Notes        string    `bson:"notes" json:"notes"`
	LastUpdated  time.Time `bson:"last_updated" json:"lastUpdated"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	ListByDate(ctx context.Context, code string, date string) ([]Room, error)
	UpdateField(ctx context.Context, code, date, number string, field RoomField, value string) error
}

func NewRoom(code, date, number, assignedTo string) (*Room, error) {
	if !ValidCode(code) {
		return nil, ErrInvalidCode
	}
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	number = strings.TrimSpace(number)
	assignedTo = strings.TrimSpace(assignedTo)
	if number == "" || assignedTo == "" {
		return nil, ErrInvalidInput
	}

	return &Room{
		PropertyCode: code,
		Date:         date,
		Number:       number,
		Status:       StatusDirty,
		AssignedTo:   assignedTo,
		Notes:        "",
		LastUpdated:  time.Now().UTC(),
	}, nil
}

func ValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// LessRoomNumber is the board ordering for room numbers: numeric when
// both sides parse as integers, lexical otherwise, so "2" sorts before
// "10" but "10A" still works. Every store must list rooms in this
// order.
func LessRoomNumber(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
