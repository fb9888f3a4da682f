package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turndownhq/turndown/internal/domain"
)

func TestScopeKeys(t *testing.T) {
	assert.Equal(t, "prop:ABC234", PropertyScope("ABC234"))
	assert.Equal(t, "rooms:ABC234:2026-08-31", RoomsScope("ABC234", "2026-08-31"))
}

func TestNewPropertySnapshot(t *testing.T) {
	created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	frame := NewPropertySnapshot(&domain.Property{
		Code:      "ABC234",
		Name:      "Seaside Inn",
		Employees: []string{"Alice"},
		CreatedAt: created,
	})

	assert.Equal(t, PropertySnapshot, frame.Type)
	assert.Equal(t, "prop:ABC234", frame.Scope)

	payload, ok := frame.Data.(PropertyPayload)
	require.True(t, ok)
	assert.Equal(t, "Seaside Inn", payload.Name)
	assert.Equal(t, []string{"Alice"}, payload.Employees)
	assert.Equal(t, "2026-08-31T12:00:00Z", payload.CreatedAt)
}

func TestNewPropertySnapshotNilEmployees(t *testing.T) {
	frame := NewPropertySnapshot(&domain.Property{Code: "ABC234", Name: "Seaside Inn"})

	payload, ok := frame.Data.(PropertyPayload)
	require.True(t, ok)
	assert.NotNil(t, payload.Employees, "employees must serialize as [] not null")
	assert.Empty(t, payload.Employees)
}

func TestNewRoomsSnapshot(t *testing.T) {
	rooms := []domain.Room{{PropertyCode: "ABC234", Date: "2026-08-31", Number: "101"}}
	frame := NewRoomsSnapshot("ABC234", "2026-08-31", rooms)

	assert.Equal(t, RoomsSnapshot, frame.Type)
	assert.Equal(t, "rooms:ABC234:2026-08-31", frame.Scope)

	payload, ok := frame.Data.(RoomsPayload)
	require.True(t, ok)
	assert.Equal(t, "ABC234", payload.PropertyCode)
	assert.Len(t, payload.Rooms, 1)
}

func TestNewRoomsSnapshotNilRooms(t *testing.T) {
	frame := NewRoomsSnapshot("ABC234", "2026-08-31", nil)

	payload, ok := frame.Data.(RoomsPayload)
	require.True(t, ok)
	assert.NotNil(t, payload.Rooms, "rooms must serialize as [] not null")
}

func TestNewScopeNotFound(t *testing.T) {
	frame := NewScopeNotFound(PropertyScope("ZZZZZZ"))

	assert.Equal(t, ScopeNotFound, frame.Type)

	payload, ok := frame.Data.(ErrorPayload)
	require.True(t, ok)
	assert.Equal(t, "SCOPE_NOT_FOUND", payload.Code)
}

func TestBoardManagerBroadcast(t *testing.T) {
	bm := NewBoardManager()

	cl := NewRoomsClient(nil, "client-1", "ABC234", "2026-08-31")
	bm.AddClient(cl)

	assert.Equal(t, 1, bm.WatcherCount(RoomsScope("ABC234", "2026-08-31")))
	assert.Equal(t, 0, bm.WatcherCount(RoomsScope("ABC234", "2026-09-01")))

	frame := NewRoomsSnapshot("ABC234", "2026-08-31", nil)
	require.NoError(t, bm.BroadcastToScope(frame))

	select {
	case got := <-cl.Frames:
		assert.Equal(t, frame, got)
	default:
		t.Fatal("expected frame in client channel")
	}
}

func TestBoardManagerBroadcastNoWatchers(t *testing.T) {
	bm := NewBoardManager()

	// A board nobody watches is not an error
	frame := NewRoomsSnapshot("ABC234", "2026-08-31", nil)
	assert.NoError(t, bm.BroadcastToScope(frame))
}

func TestBoardManagerRemoveClient(t *testing.T) {
	bm := NewBoardManager()

	cl := NewPropertyClient(nil, "client-1", "ABC234")
	bm.AddClient(cl)
	require.Equal(t, 1, bm.WatcherCount(PropertyScope("ABC234")))

	bm.RemoveClient(cl)
	assert.Equal(t, 0, bm.WatcherCount(PropertyScope("ABC234")))

	_, open := <-cl.Frames
	assert.False(t, open, "removal closes the outbound channel")
}

// gatedPropertyRepository parks GetByCode until the gate opens so the
// initial snapshot can be made to land after the watcher is gone.
type gatedPropertyRepository struct {
	entered chan struct{}
	gate    chan struct{}
}

func (r *gatedPropertyRepository) Create(context.Context, *domain.Property) error { return nil }

func (r *gatedPropertyRepository) AddEmployee(context.Context, string, string) error { return nil }

func (r *gatedPropertyRepository) GetByCode(context.Context, string) (*domain.Property, error) {
	close(r.entered)
	<-r.gate
	return &domain.Property{Code: "ABC234", Name: "Seaside Inn"}, nil
}

func TestUnregisterDuringInitialSnapshot(t *testing.T) {
	repo := &gatedPropertyRepository{
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	core := NewCore(repo, nil)
	go core.Run()

	cl := NewPropertyClient(nil, "client-1", "ABC234")
	core.Register() <- cl

	select {
	case <-repo.entered:
	case <-time.After(time.Second):
		t.Fatal("snapshot load never started")
	}

	core.Unregister() <- cl
	require.Eventually(t, func() bool {
		return core.WatcherCount(PropertyScope("ABC234")) == 0
	}, time.Second, 5*time.Millisecond)

	// Deliver the snapshot now that the watcher is unregistered. The
	// hub must drop it instead of panicking on the closed channel.
	close(repo.gate)
	time.Sleep(50 * time.Millisecond)

	assert.False(t, cl.Send(NewPropertySnapshot(&domain.Property{Code: "ABC234"})))
}
