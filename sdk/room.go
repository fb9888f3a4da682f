package turndown

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/tidwall/sjson"

	"github.com/turndownhq/turndown/sdk/internal/requestconfig"
	"github.com/turndownhq/turndown/sdk/option"
)

// Patchable room fields.
const (
	FieldStatus = "status"
	FieldNotes  = "notes"
)

type RoomService struct {
	Options []option.RequestOption
}

func NewRoomService(opts ...option.RequestOption) *RoomService {
	r := &RoomService{opts}
	return r
}

// New adds a room to the dated board. The room starts in the Dirty state.
func (r *RoomService) New(ctx context.Context, code, date string, body RoomNewParams, opts ...option.RequestOption) (*Room, error) {
	opts = slices.Concat(r.Options, opts)
	if code == "" {
		return nil, ErrMissingCodeParameter
	}
	if date == "" {
		return nil, ErrMissingDateParameter
	}

	path := fmt.Sprintf("api/properties/%s/dates/%s/rooms", code, date)
	res := &Room{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)

	return res, err
}

// List fetches the full board for one date, sorted by room number.
func (r *RoomService) List(ctx context.Context, code, date string, opts ...option.RequestOption) (*Board, error) {
	opts = slices.Concat(r.Options, opts)
	if code == "" {
		return nil, ErrMissingCodeParameter
	}
	if date == "" {
		return nil, ErrMissingDateParameter
	}

	path := fmt.Sprintf("api/properties/%s/dates/%s/rooms", code, date)
	res := &Board{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)

	return res, err
}

// UpdateField patches exactly one field of a room. Every update is a
// single-field write; status and notes never travel together.
func (r *RoomService) UpdateField(ctx context.Context, code, date, number, field, value string, opts ...option.RequestOption) error {
	opts = slices.Concat(r.Options, opts)
	if code == "" {
		return ErrMissingCodeParameter
	}
	if date == "" {
		return ErrMissingDateParameter
	}
	if number == "" {
		return ErrMissingNumberParameter
	}

	body, err := sjson.Set("{}", "field", field)
	if err != nil {
		return err
	}
	body, err = sjson.Set(body, "value", value)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("api/properties/%s/dates/%s/rooms/%s", code, date, number)
	return requestconfig.ExecuteNewRequest(ctx, http.MethodPatch, path, []byte(body), nil, opts...)
}

// SetStatus patches the cleaning status of a room.
func (r *RoomService) SetStatus(ctx context.Context, code, date, number, status string, opts ...option.RequestOption) error {
	return r.UpdateField(ctx, code, date, number, FieldStatus, status, opts...)
}

// SetNotes patches the notes of a room.
func (r *RoomService) SetNotes(ctx context.Context, code, date, number, notes string, opts ...option.RequestOption) error {
	return r.UpdateField(ctx, code, date, number, FieldNotes, notes, opts...)
}

type RoomNewParams struct {
	Number     string `json:"number"`
	AssignedTo string `json:"assignedTo"`
}

type Room struct {
	Number      string    `json:"number"`
	Status      string    `json:"status"`
	AssignedTo  string    `json:"assignedTo"`
	Notes       string    `json:"notes"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type Board struct {
	PropertyCode string `json:"propertyCode"`
	Date         string `json:"date"`
	Rooms        []Room `json:"rooms"`
}
