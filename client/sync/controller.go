// Package sync binds a client to one property and one dated room board
// at a time, tearing down stale subscriptions before opening new ones.
package sync

import (
	"context"
	"strings"
	"sync"

	turndown "github.com/turndownhq/turndown/sdk"
)

// State is the controller's binding state.
type State int

const (
	// StateIdle means no property is bound and no subscriptions exist.
	StateIdle State = iota
	// StatePropertyBound means the property document stream is live.
	StatePropertyBound
	// StateRoomBound means both the property stream and the room board
	// stream for one date are live.
	StateRoomBound
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePropertyBound:
		return "property-bound"
	case StateRoomBound:
		return "room-bound"
	}
	return "unknown"
}

// PropertyStream and RoomsStream abstract the SDK subscriptions so the
// controller can be driven by fakes in tests.
type PropertyStream interface {
	Snapshots() <-chan turndown.PropertySnapshotData
	Errs() <-chan error
	Close() error
}

type RoomsStream interface {
	Snapshots() <-chan turndown.RoomsSnapshotData
	Errs() <-chan error
	Close() error
}

type Gateway interface {
	SubscribeProperty(ctx context.Context, code string) (PropertyStream, error)
	SubscribeRooms(ctx context.Context, code, date string) (RoomsStream, error)
}

// Update is one state push to the UI. Exactly one of Property or Rooms
// is set. Generation identifies the binding the snapshot belongs to.
type Update struct {
	Generation uint64
	Property   *turndown.PropertySnapshotData
	Rooms      *turndown.RoomsSnapshotData
}

// Controller owns at most one property subscription and one room board
// subscription. Every rebind closes the old streams first and bumps the
// generation so snapshots from a dead binding can never reach the UI.
type Controller struct {
	gateway Gateway

	mu          sync.Mutex
	state       State
	code        string
	date        string
	employee    string
	generation  uint64
	propStream  PropertyStream
	roomsStream RoomsStream
	lastRooms   *turndown.RoomsSnapshotData
	closed      bool

	updates       chan Update
	notifications chan error
}

func NewController(gateway Gateway) *Controller {
	return &Controller{
		gateway:       gateway,
		state:         StateIdle,
		updates:       make(chan Update, 16),
		notifications: make(chan error, 8),
	}
}

// Updates delivers snapshots for the current binding.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// Notifications delivers subscription errors. The stream they came from
// keeps its binding; there is no automatic retry.
func (c *Controller) Notifications() <-chan error {
	return c.notifications
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) Params() (code, date, employee string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code, c.date, c.employee
}

// codeAlphabet mirrors the characters property codes are generated
// from; anything outside it can never name a property.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func validCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}

// SetParams rebinds the controller to (code, date). Teardown always
// happens before the new subscriptions open, even when only the date
// changed. Binding requires a full 6 character code and a date;
// anything less drops to Idle. Clearing both params is a plain unbind
// and returns nil.
func (c *Controller) SetParams(ctx context.Context, code, date string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}

	c.teardownLocked()
	c.generation++
	c.lastRooms = nil

	if code == "" && date == "" {
		c.code = ""
		c.date = ""
		c.state = StateIdle
		c.mu.Unlock()
		return nil
	}

	if !validCode(code) || date == "" {
		c.code = ""
		c.date = ""
		c.state = StateIdle
		c.mu.Unlock()
		return ErrInvalidBinding
	}

	c.code = code
	c.date = date

	generation := c.generation
	c.mu.Unlock()

	propStream, err := c.gateway.SubscribeProperty(ctx, code)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	// A concurrent rebind won the race; this subscription is already stale
	if c.generation != generation || c.closed {
		c.mu.Unlock()
		_ = propStream.Close()
		return nil
	}
	c.propStream = propStream
	c.state = StatePropertyBound
	c.mu.Unlock()

	go c.pumpProperty(propStream, generation)

	roomsStream, err := c.gateway.SubscribeRooms(ctx, code, date)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.generation != generation || c.closed {
		c.mu.Unlock()
		_ = roomsStream.Close()
		return nil
	}
	c.roomsStream = roomsStream
	c.state = StateRoomBound
	c.mu.Unlock()

	go c.pumpRooms(roomsStream, generation)

	return nil
}

// SetEmployee changes the display filter. The subscriptions are
// untouched; the cached board is re-emitted so the UI can re-filter.
func (c *Controller) SetEmployee(name string) {
	c.mu.Lock()
	c.employee = name
	last := c.lastRooms
	generation := c.generation
	closed := c.closed
	c.mu.Unlock()

	if closed || last == nil {
		return
	}

	c.emit(Update{Generation: generation, Rooms: last})
}

func (c *Controller) Employee() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.employee
}

// Close tears down all subscriptions and stops delivery.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.teardownLocked()
	c.generation++
	c.state = StateIdle
}

func (c *Controller) teardownLocked() {
	if c.propStream != nil {
		_ = c.propStream.Close()
		c.propStream = nil
	}
	if c.roomsStream != nil {
		_ = c.roomsStream.Close()
		c.roomsStream = nil
	}
}

func (c *Controller) pumpProperty(stream PropertyStream, generation uint64) {
	snapshots := stream.Snapshots()
	errs := stream.Errs()

	for snapshots != nil || errs != nil {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			if !c.currentGeneration(generation) {
				return
			}
			s := snap
			c.emit(Update{Generation: generation, Property: &s})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if !c.currentGeneration(generation) {
				return
			}
			c.notify(err)
		}
	}
}

func (c *Controller) pumpRooms(stream RoomsStream, generation uint64) {
	snapshots := stream.Snapshots()
	errs := stream.Errs()

	for snapshots != nil || errs != nil {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			s := snap

			c.mu.Lock()
			if c.generation != generation || c.closed {
				c.mu.Unlock()
				return
			}
			c.lastRooms = &s
			c.mu.Unlock()

			c.emit(Update{Generation: generation, Rooms: &s})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if !c.currentGeneration(generation) {
				return
			}
			c.notify(err)
		}
	}
}

func (c *Controller) currentGeneration(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == generation && !c.closed
}

func (c *Controller) emit(update Update) {
	select {
	case c.updates <- update:
	default:
		// UI is not draining; the next snapshot supersedes this one
	}
}

func (c *Controller) notify(err error) {
	select {
	case c.notifications <- err:
	default:
	}
}
