package turndown

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turndownhq/turndown/sdk/option"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsServer upgrades every request and sends each frame in turn, then
// holds the connection open until the client disconnects.
func wsServer(t *testing.T, frames ...string) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return NewClient(option.WithBaseURL(server.URL))
}

func TestPropertySubscribe(t *testing.T) {
	client := wsServer(t,
		`{"type":"snapshot.property","scope":"prop:ABC234","data":{"code":"ABC234","name":"Seaside Inn","employees":["Maria"]}}`,
	)

	sub, err := client.Properties.Subscribe(context.Background(), "ABC234")
	require.NoError(t, err)
	defer sub.Close()

	select {
	case snap := <-sub.Snapshots():
		assert.Equal(t, "Seaside Inn", snap.Name)
		assert.Equal(t, []string{"Maria"}, snap.Employees)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestRoomsSubscribe(t *testing.T) {
	client := wsServer(t,
		`{"type":"snapshot.rooms","scope":"rooms:ABC234:2026-08-31","data":{"propertyCode":"ABC234","date":"2026-08-31","rooms":[{"number":"101","status":"Dirty"}]}}`,
		`{"type":"snapshot.rooms","scope":"rooms:ABC234:2026-08-31","data":{"propertyCode":"ABC234","date":"2026-08-31","rooms":[{"number":"101","status":"Clean"}]}}`,
	)

	sub, err := client.Rooms.Subscribe(context.Background(), "ABC234", "2026-08-31")
	require.NoError(t, err)
	defer sub.Close()

	// Every frame is a full board, so the second one supersedes the first
	first := <-sub.Snapshots()
	require.Len(t, first.Rooms, 1)
	assert.Equal(t, "Dirty", first.Rooms[0].Status)

	second := <-sub.Snapshots()
	assert.Equal(t, "Clean", second.Rooms[0].Status)
}

func TestSubscribeScopeNotFound(t *testing.T) {
	client := wsServer(t,
		`{"type":"error.not_found","scope":"prop:ZZZZZZ","data":{"code":"SCOPE_NOT_FOUND","message":"no such property"}}`,
	)

	sub, err := client.Properties.Subscribe(context.Background(), "ZZZZZZ")
	require.NoError(t, err)
	defer sub.Close()

	select {
	case err := <-sub.Errs():
		var subErr *SubscriptionError
		require.True(t, errors.As(err, &subErr))
		assert.True(t, subErr.NotFound())
		assert.Equal(t, "prop:ZZZZZZ", subErr.Scope)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestSubscribeCloseEndsStreams(t *testing.T) {
	client := wsServer(t)

	sub, err := client.Rooms.Subscribe(context.Background(), "ABC234", "2026-08-31")
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	select {
	case _, open := <-sub.Snapshots():
		assert.False(t, open, "snapshot channel closes after Close")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestSubscribeCloseWithUndrainedBuffer(t *testing.T) {
	// Far more frames than the snapshot buffer holds; the listener must
	// drop the overflow rather than block on a consumer that never reads
	frames := make([]string, 64)
	for i := range frames {
		frames[i] = `{"type":"snapshot.rooms","scope":"rooms:ABC234:2026-08-31","data":{"propertyCode":"ABC234","date":"2026-08-31","rooms":[{"number":"101","status":"Dirty"}]}}`
	}
	client := wsServer(t, frames...)

	sub, err := client.Rooms.Subscribe(context.Background(), "ABC234", "2026-08-31")
	require.NoError(t, err)

	// Give the listener time to work through every frame without
	// draining a single snapshot
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, sub.Close())

	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-sub.Snapshots():
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("snapshot channel never closed; listener stuck on a full buffer")
		}
	}
}

func TestSubscribeMissingParams(t *testing.T) {
	client := NewClient()

	_, err := client.Properties.Subscribe(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCodeParameter)

	_, err = client.Rooms.Subscribe(context.Background(), "ABC234", "")
	assert.ErrorIs(t, err, ErrMissingDateParameter)
}
