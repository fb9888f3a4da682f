package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/infrastructure/repository"
	"github.com/turndownhq/turndown/internal/infrastructure/ws"
)

func testRouter(t *testing.T) (*chi.Mux, string) {
	t.Helper()

	propertyRepository := repository.NewPropertyRepository()
	roomRepository := repository.NewRoomRepository()
	core := ws.NewCore(propertyRepository, roomRepository)
	go core.Run()

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, propertyRepository.Create(context.Background(), property))

	handler := NewHandler(propertyRepository, roomRepository, core.Manager(), core, nil)

	r := chi.NewRouter()
	r.Route("/api/properties/{code}/dates/{date}/rooms", func(r chi.Router) {
		r.Post("/", handler.CreateRoomHandler)
		r.Get("/", handler.ListRoomsHandler)
		r.Patch("/{number}", handler.UpdateRoomHandler)
	})

	return r, property.Code
}

func doJSON(t *testing.T, router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func boardPath(code string) string {
	return "/api/properties/" + code + "/dates/2026-08-31/rooms"
}

func TestCreateRoom(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res roomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "204", res.Number)
	assert.Equal(t, domain.StatusDirty, res.Status, "new rooms start dirty")
	assert.Equal(t, "Maria", res.AssignedTo)
}

func TestCreateRoomDuplicate(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Ana"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateRoomUnknownProperty(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath("ZZZZZZ"), `{"number":"204","assignedTo":"Maria"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRoomInvalidDate(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/properties/"+code+"/dates/tomorrow/rooms", `{"number":"204","assignedTo":"Maria"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRooms(t *testing.T) {
	router, code := testRouter(t)

	for _, body := range []string{
		`{"number":"10","assignedTo":"Maria"}`,
		`{"number":"2","assignedTo":"Ana"}`,
	} {
		rec := doJSON(t, router, http.MethodPost, boardPath(code), body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, boardPath(code), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res boardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, code, res.PropertyCode)
	assert.Equal(t, "2026-08-31", res.Date)
	require.Len(t, res.Rooms, 2)
	assert.Equal(t, "2", res.Rooms[0].Number, "board is sorted by room number")
	assert.Equal(t, "10", res.Rooms[1].Number)
}

func TestListRoomsEmptyBoard(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, boardPath(code), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res boardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotNil(t, res.Rooms)
	assert.Empty(t, res.Rooms)
}

func TestUpdateRoomStatus(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, boardPath(code)+"/204", `{"field":"status","value":"Clean"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, boardPath(code), "")
	var res boardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, domain.StatusClean, res.Rooms[0].Status)
}

func TestUpdateRoomNotes(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, boardPath(code)+"/204", `{"field":"notes","value":"extra towels"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, boardPath(code), "")
	var res boardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "extra towels", res.Rooms[0].Notes)
	assert.Equal(t, domain.StatusDirty, res.Rooms[0].Status, "patching notes leaves status alone")
}

func TestUpdateRoomUnknownField(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, boardPath(code)+"/204", `{"field":"assignedTo","value":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRoomInvalidStatus(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, boardPath(code), `{"number":"204","assignedTo":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, boardPath(code)+"/204", `{"field":"status","value":"Sparkling"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRoomNotFound(t *testing.T) {
	router, code := testRouter(t)

	rec := doJSON(t, router, http.MethodPatch, boardPath(code)+"/404", `{"field":"notes","value":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
