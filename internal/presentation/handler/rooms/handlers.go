package rooms

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/infrastructure/events"
	"github.com/turndownhq/turndown/internal/infrastructure/json"
	"github.com/turndownhq/turndown/internal/infrastructure/metrics"
	"github.com/turndownhq/turndown/internal/infrastructure/validate"
	"github.com/turndownhq/turndown/internal/infrastructure/ws"
)

var (
	validateCode = validate.Field("code",
		validate.Required(),
		validate.Length(domain.CodeLength),
		validate.FromCharset(domain.CodeAlphabet),
	)
	validateDate = validate.Field("date",
		validate.Required(),
		validate.Date(),
	)
	validateNumber = validate.Field("number",
		validate.Required(),
		validate.MaxLength(10),
		validate.NoSpaces(),
	)
)

type Handler struct {
	propertyRepository domain.PropertyRepository
	roomRepository     domain.RoomRepository
	boardManager       *ws.BoardManager
	core               *ws.Core
	boardPublisher     *events.BoardPublisher
}

func NewHandler(
	propertyRepository domain.PropertyRepository,
	roomRepository domain.RoomRepository,
	boardManager *ws.BoardManager,
	core *ws.Core,
	boardPublisher *events.BoardPublisher,
) *Handler {
	return &Handler{
		propertyRepository: propertyRepository,
		roomRepository:     roomRepository,
		boardManager:       boardManager,
		core:               core,
		boardPublisher:     boardPublisher,
	}
}

// CreateRoomHandler godoc
// @Summary      Add a room to a dated board
// @Description  Creates a room record starting in the Dirty state and pushes the updated board to subscribers
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Property access code"
// @Param        date path string true "Board date (YYYY-MM-DD)"
// @Param        request body createRoomRequest true "Room creation parameters"
// @Success      201 {object} roomResponse "Room created successfully"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      404 {object} map[string]interface{} "Property not found"
// @Failure      409 {object} map[string]interface{} "Conflict - room number already on this board"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /properties/{code}/dates/{date}/rooms [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	date := chi.URLParam(r, "date")
	if err := validateScope(code, date); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validateNumber(req.Number); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	if _, err := h.propertyRepository.GetByCode(ctx, code); err != nil {
		switch {
		case errors.Is(err, domain.ErrPropertyNotFound):
			json.WriteNotFoundError(w, err, "Property not found")
		default:
			log.Printf("Failed to find property %s: %v", code, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	newRoom, err := domain.NewRoom(code, date, req.Number, req.AssignedTo)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.roomRepository.Create(ctx, newRoom); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomAlreadyExists):
			json.WriteConflictError(w, err, "Room number already exists for this date")
		default:
			log.Printf("Repository error creating room %s/%s/%s: %v", code, date, req.Number, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	h.broadcastBoard(r, code, date)

	if h.boardPublisher != nil {
		if err := h.boardPublisher.PublishRoomCreated(ctx, domain.NewRoomCreatedLog(code, date, newRoom.Number, newRoom.AssignedTo)); err != nil {
			log.Printf("Error publishing room created: %v\n", err)
		}
	}

	json.Write(w, http.StatusCreated, toRoomResponse(*newRoom))
}

// UpdateRoomHandler godoc
// @Summary      Patch one field of a room
// @Description  Updates either the status or the notes of a room, never both, and pushes the updated board
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Property access code"
// @Param        date path string true "Board date (YYYY-MM-DD)"
// @Param        number path string true "Room number"
// @Param        request body updateRoomRequest true "Field and new value"
// @Success      204 "Room updated successfully"
// @Failure      400 {object} map[string]interface{} "Bad request - unknown field or invalid status"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /properties/{code}/dates/{date}/rooms/{number} [patch]
func (h *Handler) UpdateRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	date := chi.URLParam(r, "date")
	number := chi.URLParam(r, "number")
	if err := validateScope(code, date); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validateNumber(number); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req updateRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	field := domain.RoomField(req.Field)
	if !field.Valid() {
		json.WriteBadRequestError(w, "Field must be status or notes")
		return
	}

	if field == domain.FieldStatus {
		if _, err := domain.ParseStatus(req.Value); err != nil {
			json.WriteValidationError(w, err)
			return
		}
	}

	ctx := r.Context()
	if err := h.roomRepository.UpdateField(ctx, code, date, number, field, req.Value); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		case errors.Is(err, domain.ErrInvalidInput):
			json.WriteValidationError(w, err)
		default:
			log.Printf("Repository error updating room %s/%s/%s: %v", code, date, number, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	h.broadcastBoard(r, code, date)

	if h.boardPublisher != nil {
		var err error
		if field == domain.FieldStatus {
			status, _ := domain.ParseStatus(req.Value)
			err = h.boardPublisher.PublishStatusChanged(ctx, domain.NewStatusChangedLog(code, date, number, status))
		} else {
			err = h.boardPublisher.PublishNotesChanged(ctx, domain.NewNotesChangedLog(code, date, number))
		}
		if err != nil {
			log.Printf("Error publishing room update: %v\n", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRoomsHandler godoc
// @Summary      List the room board for a date
// @Description  Returns every room on the board, sorted by room number
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Property access code"
// @Param        date path string true "Board date (YYYY-MM-DD)"
// @Success      200 {object} boardResponse "Room board"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /properties/{code}/dates/{date}/rooms [get]
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	date := chi.URLParam(r, "date")
	if err := validateScope(code, date); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	rooms, err := h.roomRepository.ListByDate(r.Context(), code, date)
	if err != nil {
		log.Printf("Repository error listing rooms %s/%s: %v", code, date, err)
		json.WriteInternalError(w, err)
		return
	}

	mapped := make([]roomResponse, len(rooms))
	for i, room := range rooms {
		mapped[i] = toRoomResponse(room)
	}

	json.Write(w, http.StatusOK, boardResponse{
		PropertyCode: code,
		Date:         date,
		Rooms:        mapped,
	})
}

// SubscribeRoomsHandler godoc
// @Summary      Subscribe to room board snapshots via WebSocket
// @Description  Streams the full board on every change, starting with the current state
// @Tags         rooms
// @Param        code path string true "Property access code"
// @Param        date path string true "Board date (YYYY-MM-DD)"
// @Success      101 {object} map[string]interface{} "Switching Protocols - WebSocket connection established"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Router       /properties/{code}/dates/{date}/rooms/subscribe [get]
func (h *Handler) SubscribeRoomsHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	date := chi.URLParam(r, "date")
	if err := validateScope(code, date); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	conn, err := h.boardManager.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for board %s/%s: %v", code, date, err)
		return
	}

	client := ws.NewRoomsClient(conn, uuid.NewString(), code, date)

	h.core.Register() <- client
	metrics.Subscribers.Inc()

	go client.WriteLoop()
	go func() {
		client.ReadLoop(h.core)
		metrics.Subscribers.Dec()
	}()
}

// broadcastBoard pushes the full board to everyone watching this
// (property, date) scope. Subscribers always receive complete
// snapshots, never deltas.
func (h *Handler) broadcastBoard(r *http.Request, code, date string) {
	rooms, err := h.roomRepository.ListByDate(r.Context(), code, date)
	if err != nil {
		log.Printf("Failed to load board for broadcast %s/%s: %v", code, date, err)
		return
	}

	h.core.Broadcast() <- ws.NewRoomsSnapshot(code, date, rooms)
	metrics.SnapshotsBroadcast.WithLabelValues("rooms").Inc()
}

func validateScope(code, date string) error {
	if err := validateCode(code); err != nil {
		return err
	}
	return validateDate(date)
}

func toRoomResponse(room domain.Room) roomResponse {
	return roomResponse{
		Number:      room.Number,
		Status:      room.Status,
		AssignedTo:  room.AssignedTo,
		Notes:       room.Notes,
		LastUpdated: room.LastUpdated,
	}
}
