package properties

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

// Code collisions are vanishingly rare (32^6 keyspace) but InsertOne
// surfaces them, so creation retries with a fresh code a few times.
const maxCodeAttempts = 5

var (
	validateName = validate.Field("name",
		validate.Required(),
		validate.MaxLength(100),
	)
	validateEmployee = validate.Field("name",
		validate.Required(),
		validate.MaxLength(60),
	)
	validateCode = validate.Field("code",
		validate.Required(),
		validate.Length(domain.CodeLength),
		validate.FromCharset(domain.CodeAlphabet),
	)
)

type Handler struct {
	propertyRepository domain.PropertyRepository
	boardManager       *ws.BoardManager
	core               *ws.Core
	boardPublisher     *events.BoardPublisher
}

func NewHandler(
	propertyRepository domain.PropertyRepository,
	boardManager *ws.BoardManager,
	core *ws.Core,
	boardPublisher *events.BoardPublisher,
) *Handler {
	return &Handler{
		propertyRepository: propertyRepository,
		boardManager:       boardManager,
		core:               core,
		boardPublisher:     boardPublisher,
	}
}

// CreatePropertyHandler godoc
// @Summary      Register a new property
// @Description  Creates a property with a freshly generated access code
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body createPropertyRequest true "Property registration parameters"
// @Success      201 {object} propertyResponse "Property created successfully"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /properties [post]
func (h *Handler) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validateName(req.Name); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()

	var property *domain.Property
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate, err := domain.NewProperty(req.Name)
		if err != nil {
			json.WriteValidationError(w, err)
			return
		}

		err = h.propertyRepository.Create(ctx, candidate)
		if err == nil {
			property = candidate
			break
		}
		if !errors.Is(err, domain.ErrPropertyAlreadyExists) {
			log.Printf("Repository error creating property: %v", err)
			json.WriteInternalError(w, err)
			return
		}
	}

	if property == nil {
		json.WriteInternalError(w, errors.New("could not allocate a unique property code"))
		return
	}

	if h.boardPublisher != nil {
		if err := h.boardPublisher.PublishPropertyCreated(ctx, domain.NewPropertyCreatedLog(property.Code, property.Name)); err != nil {
			log.Printf("Error publishing property created: %v\n", err)
		}
	}

	json.Write(w, http.StatusCreated, toPropertyResponse(property))
}

// GetPropertyHandler godoc
// @Summary      Get property details
// @Description  Retrieves the property document for an access code
// @Tags         properties
// @Produce      json
// @Param        code path string true "Property access code"
// @Success      200 {object} propertyResponse "Property details"
// @Failure      400 {object} map[string]interface{} "Bad request - malformed code"
// @Failure      404 {object} map[string]interface{} "Property not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /properties/{code} [get]
func (h *Handler) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validateCode(code); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	property, err := h.propertyRepository.GetByCode(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPropertyNotFound):
			json.WriteNotFoundError(w, err, "Property not found")
		default:
			log.Printf("Failed to find property %s: %v", code, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, toPropertyResponse(property))
}

// AddEmployeeHandler godoc
// @Summary      Add a housekeeper to a property
// @Description  Appends a name to the employee roster with set semantics; duplicates are a no-op
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        code path string true "Property access code"
// @Param        request body addEmployeeRequest true "Employee to add"
// @Success      200 {object} propertyResponse "Roster after the addition"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      404 {object} map[string]interface{} "Property not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /properties/{code}/employees [post]
func (h *Handler) AddEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validateCode(code); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req addEmployeeRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validateEmployee(req.Name); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	if err := h.propertyRepository.AddEmployee(ctx, code, req.Name); err != nil {
		switch {
		case errors.Is(err, domain.ErrPropertyNotFound):
			json.WriteNotFoundError(w, err, "Property not found")
		default:
			log.Printf("Failed to add employee to %s: %v", code, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	property, err := h.propertyRepository.GetByCode(ctx, code)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	// Every watcher of this property gets the full updated document
	h.core.Broadcast() <- ws.NewPropertySnapshot(property)
	metrics.SnapshotsBroadcast.WithLabelValues("property").Inc()

	if h.boardPublisher != nil {
		if err := h.boardPublisher.PublishEmployeeAdded(ctx, domain.NewEmployeeAddedLog(code, req.Name)); err != nil {
			log.Printf("Error publishing employee added: %v\n", err)
		}
	}

	json.Write(w, http.StatusOK, toPropertyResponse(property))
}

// SubscribePropertyHandler godoc
// @Summary      Subscribe to property snapshots via WebSocket
// @Description  Streams the full property document on every change, starting with the current state
// @Tags         properties
// @Param        code path string true "Property access code"
// @Success      101 {object} map[string]interface{} "Switching Protocols - WebSocket connection established"
// @Failure      400 {object} map[string]interface{} "Bad request - malformed code"
// @Router       /properties/{code}/subscribe [get]
func (h *Handler) SubscribePropertyHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validateCode(code); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	conn, err := h.boardManager.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for property %s: %v", code, err)
		return
	}

	client := ws.NewPropertyClient(conn, uuid.NewString(), code)

	h.core.Register() <- client
	metrics.Subscribers.Inc()

	go client.WriteLoop()
	go func() {
		client.ReadLoop(h.core)
		metrics.Subscribers.Dec()
	}()
}

func toPropertyResponse(property *domain.Property) propertyResponse {
	employees := property.Employees
	if employees == nil {
		employees = []string{}
	}

	return propertyResponse{
		Code:      property.Code,
		Name:      property.Name,
		Employees: employees,
		CreatedAt: property.CreatedAt,
	}
}
