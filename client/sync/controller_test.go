package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	turndown "github.com/turndownhq/turndown/sdk"
)

type fakePropertyStream struct {
	snapshots chan turndown.PropertySnapshotData
	errs      chan error

	mu     sync.Mutex
	closed bool
}

func newFakePropertyStream() *fakePropertyStream {
	return &fakePropertyStream{
		snapshots: make(chan turndown.PropertySnapshotData, 8),
		errs:      make(chan error, 8),
	}
}

func (f *fakePropertyStream) Snapshots() <-chan turndown.PropertySnapshotData { return f.snapshots }
func (f *fakePropertyStream) Errs() <-chan error                              { return f.errs }

func (f *fakePropertyStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.snapshots)
		close(f.errs)
	}
	return nil
}

func (f *fakePropertyStream) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeRoomsStream struct {
	snapshots chan turndown.RoomsSnapshotData
	errs      chan error

	mu     sync.Mutex
	closed bool
}

func newFakeRoomsStream() *fakeRoomsStream {
	return &fakeRoomsStream{
		snapshots: make(chan turndown.RoomsSnapshotData, 8),
		errs:      make(chan error, 8),
	}
}

func (f *fakeRoomsStream) Snapshots() <-chan turndown.RoomsSnapshotData { return f.snapshots }
func (f *fakeRoomsStream) Errs() <-chan error                           { return f.errs }

func (f *fakeRoomsStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.snapshots)
		close(f.errs)
	}
	return nil
}

func (f *fakeRoomsStream) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeGateway struct {
	mu          sync.Mutex
	propStreams []*fakePropertyStream
	roomStreams []*fakeRoomsStream
	propErr     error
	roomsErr    error
}

func (g *fakeGateway) SubscribeProperty(ctx context.Context, code string) (PropertyStream, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.propErr != nil {
		return nil, g.propErr
	}
	stream := newFakePropertyStream()
	g.propStreams = append(g.propStreams, stream)
	return stream, nil
}

func (g *fakeGateway) SubscribeRooms(ctx context.Context, code, date string) (RoomsStream, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.roomsErr != nil {
		return nil, g.roomsErr
	}
	stream := newFakeRoomsStream()
	g.roomStreams = append(g.roomStreams, stream)
	return stream, nil
}

func (g *fakeGateway) lastProperty() *fakePropertyStream {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.propStreams[len(g.propStreams)-1]
}

func (g *fakeGateway) lastRooms() *fakeRoomsStream {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roomStreams[len(g.roomStreams)-1]
}

func waitUpdate(t *testing.T, c *Controller) Update {
	t.Helper()
	select {
	case update := <-c.Updates():
		return update
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestStateTransitions(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()
	ctx := context.Background()

	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.SetParams(ctx, "ABC234", "2026-08-31"))
	assert.Equal(t, StateRoomBound, c.State())

	require.NoError(t, c.SetParams(ctx, "", ""))
	assert.Equal(t, StateIdle, c.State())
}

func TestSetParamsRejectsPartialBindings(t *testing.T) {
	tests := []struct {
		name string
		code string
		date string
	}{
		{name: "short code", code: "ABC", date: "2026-08-31"},
		{name: "overlong code", code: "ABC2345", date: "2026-08-31"},
		{name: "lowercase code", code: "abc234", date: "2026-08-31"},
		{name: "ambiguous character", code: "ABC10O", date: "2026-08-31"},
		{name: "missing date", code: "ABC234", date: ""},
		{name: "date without code", code: "", date: "2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			c := NewController(gw)
			defer c.Close()

			err := c.SetParams(context.Background(), tt.code, tt.date)
			assert.ErrorIs(t, err, ErrInvalidBinding)
			assert.Equal(t, StateIdle, c.State())

			code, date, _ := c.Params()
			assert.Empty(t, code)
			assert.Empty(t, date)
		})
	}
}

func TestSetParamsInvalidBindingStillTearsDown(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.SetParams(ctx, "ABC234", "2026-08-31"))
	prop := gw.lastProperty()
	rooms := gw.lastRooms()

	assert.ErrorIs(t, c.SetParams(ctx, "ABC", "2026-08-31"), ErrInvalidBinding)
	assert.True(t, prop.isClosed())
	assert.True(t, rooms.isClosed())
	assert.Equal(t, StateIdle, c.State())
}

func TestSnapshotsFlowThrough(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()

	require.NoError(t, c.SetParams(context.Background(), "ABC234", "2026-08-31"))

	gw.lastProperty().snapshots <- turndown.PropertySnapshotData{Code: "ABC234", Name: "Seaside Inn"}
	update := waitUpdate(t, c)
	require.NotNil(t, update.Property)
	assert.Equal(t, "Seaside Inn", update.Property.Name)
	assert.Equal(t, c.Generation(), update.Generation)

	gw.lastRooms().snapshots <- turndown.RoomsSnapshotData{
		PropertyCode: "ABC234",
		Date:         "2026-08-31",
		Rooms:        []turndown.Room{{Number: "101"}},
	}
	update = waitUpdate(t, c)
	require.NotNil(t, update.Rooms)
	assert.Len(t, update.Rooms.Rooms, 1)
}

func TestRebindClosesOldStreamsFirst(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.SetParams(ctx, "ABC234", "2026-08-31"))
	oldProp := gw.lastProperty()
	oldRooms := gw.lastRooms()

	// Changing only the date still tears down both subscriptions
	require.NoError(t, c.SetParams(ctx, "ABC234", "2026-09-01"))

	assert.True(t, oldProp.isClosed())
	assert.True(t, oldRooms.isClosed())
	assert.False(t, gw.lastProperty().isClosed())
	assert.False(t, gw.lastRooms().isClosed())
}

func TestStaleSnapshotsAreDiscarded(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.SetParams(ctx, "ABC234", "2026-08-31"))
	staleGeneration := c.Generation()

	require.NoError(t, c.SetParams(ctx, "ABC234", "2026-09-01"))
	gw.lastRooms().snapshots <- turndown.RoomsSnapshotData{Date: "2026-09-01"}

	update := waitUpdate(t, c)
	assert.NotEqual(t, staleGeneration, update.Generation)
	assert.Equal(t, "2026-09-01", update.Rooms.Date)
}

func TestSetEmployeeReEmitsWithoutResubscribe(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()

	require.NoError(t, c.SetParams(context.Background(), "ABC234", "2026-08-31"))

	gw.lastRooms().snapshots <- turndown.RoomsSnapshotData{
		Date:  "2026-08-31",
		Rooms: []turndown.Room{{Number: "101", AssignedTo: "Alice"}},
	}
	waitUpdate(t, c)

	before := len(gw.roomStreams)
	c.SetEmployee("Alice")

	update := waitUpdate(t, c)
	require.NotNil(t, update.Rooms, "cached board is re-emitted")
	assert.Equal(t, "Alice", c.Employee())
	assert.Len(t, gw.roomStreams, before, "no new subscription is opened")
}

func TestSubscriptionErrorsAreNotified(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)
	defer c.Close()

	require.NoError(t, c.SetParams(context.Background(), "ABC234", "2026-08-31"))

	streamErr := errors.New("connection lost")
	gw.lastRooms().errs <- streamErr

	select {
	case err := <-c.Notifications():
		assert.Equal(t, streamErr, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}

	// No automatic retry: the binding keeps its single stream
	assert.Len(t, gw.roomStreams, 1)
}

func TestSubscribeFailureDropsToIdle(t *testing.T) {
	gw := &fakeGateway{propErr: errors.New("dial failed")}
	c := NewController(gw)
	defer c.Close()

	err := c.SetParams(context.Background(), "ZZZZZZ", "2026-08-31")
	assert.Error(t, err)
	assert.Equal(t, StateIdle, c.State())
}

func TestCloseTearsDownAndRejectsRebind(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw)

	require.NoError(t, c.SetParams(context.Background(), "ABC234", "2026-08-31"))
	c.Close()

	assert.True(t, gw.lastProperty().isClosed())
	assert.True(t, gw.lastRooms().isClosed())
	assert.Equal(t, StateIdle, c.State())

	err := c.SetParams(context.Background(), "ABC234", "2026-08-31")
	assert.ErrorIs(t, err, ErrControllerClosed)
}
