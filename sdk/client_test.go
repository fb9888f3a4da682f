package turndown

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turndownhq/turndown/sdk/option"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(option.WithBaseURL(server.URL))
}

func TestPropertyNew(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/properties", r.URL.Path)

		var body PropertyNewParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Seaside Inn", body.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"code":"ABC234","name":"Seaside Inn","employees":[]}`)
	})

	property, err := client.Properties.New(context.Background(), PropertyNewParams{Name: "Seaside Inn"})
	require.NoError(t, err)
	assert.Equal(t, "ABC234", property.Code)
	assert.Empty(t, property.Employees)
}

func TestPropertyGetNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"property not found"}`)
	})

	_, err := client.Properties.Get(context.Background(), "ZZZZZZ")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "property not found")
}

func TestPropertyGetMissingCode(t *testing.T) {
	client := NewClient()
	_, err := client.Properties.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCodeParameter)
}

func TestRoomUpdateFieldBody(t *testing.T) {
	var gotBody []byte
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/properties/ABC234/dates/2026-08-31/rooms/101", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Rooms.SetStatus(context.Background(), "ABC234", "2026-08-31", "101", "Clean")
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"status","value":"Clean"}`, string(gotBody))

	err = client.Rooms.SetNotes(context.Background(), "ABC234", "2026-08-31", "101", "needs towels")
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"notes","value":"needs towels"}`, string(gotBody))
}

func TestRoomList(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/properties/ABC234/dates/2026-08-31/rooms", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"propertyCode":"ABC234","date":"2026-08-31","rooms":[{"number":"101","status":"Dirty","assignedTo":"Alice"}]}`)
	})

	board, err := client.Rooms.List(context.Background(), "ABC234", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, board.Rooms, 1)
	assert.Equal(t, "101", board.Rooms[0].Number)
}

func TestRoomNewConflict(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"room already exists for this date"}`)
	})

	_, err := client.Rooms.New(context.Background(), "ABC234", "2026-08-31", RoomNewParams{Number: "101", AssignedTo: "Alice"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestNoRetryOnServerError(t *testing.T) {
	var requests int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Properties.Get(context.Background(), "ABC234")
	require.Error(t, err)
	assert.Equal(t, 1, requests, "failed requests are never retried")
}

func TestPlatformHeaders(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Turndown-Package-Version"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	})

	_, err := client.Properties.Get(context.Background(), "ABC234")
	require.NoError(t, err)
}
