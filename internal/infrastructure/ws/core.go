package ws

import (
	"context"
	"errors"
	"log"

	"github.com/turndownhq/turndown/internal/domain"
)

type Core struct {
	boardMgr           *BoardManager
	register           chan *Client
	unregister         chan *Client
	broadcast          chan *Frame
	propertyRepository domain.PropertyRepository
	roomRepository     domain.RoomRepository
}

func NewCore(propertyRepository domain.PropertyRepository, roomRepository domain.RoomRepository) *Core {
	return &Core{
		boardMgr:           NewBoardManager(),
		register:           make(chan *Client),
		unregister:         make(chan *Client),
		broadcast:          make(chan *Frame, 256),
		propertyRepository: propertyRepository,
		roomRepository:     roomRepository,
	}
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.boardMgr.AddClient(cl)

			// ---------- Push the current state of the scope ----------
			go c.pushInitialSnapshot(cl)

		case cl := <-c.unregister:
			c.boardMgr.RemoveClient(cl)

		case frame := <-c.broadcast:
			if err := c.boardMgr.BroadcastToScope(frame); err != nil {
				log.Printf("broadcast error: %v", err)
			}
		}
	}
}

// pushInitialSnapshot sends a new watcher the full current snapshot so
// it never has to wait for the next mutation to see the board.
func (c *Core) pushInitialSnapshot(cl *Client) {
	ctx := context.Background()

	var frame *Frame
	if cl.Date == "" {
		property, err := c.propertyRepository.GetByCode(ctx, cl.PropertyCode)
		if err != nil {
			if errors.Is(err, domain.ErrPropertyNotFound) {
				frame = NewScopeNotFound(cl.Scope)
			} else {
				log.Printf("snapshot load failed (scope %s): %v", cl.Scope, err)
				frame = NewError(cl.Scope, "failed to load property")
			}
		} else {
			frame = NewPropertySnapshot(property)
		}
	} else {
		rooms, err := c.roomRepository.ListByDate(ctx, cl.PropertyCode, cl.Date)
		if err != nil {
			log.Printf("snapshot load failed (scope %s): %v", cl.Scope, err)
			frame = NewError(cl.Scope, "failed to load rooms")
		} else {
			frame = NewRoomsSnapshot(cl.PropertyCode, cl.Date, rooms)
		}
	}

	// The watcher may have unregistered while the snapshot was loading;
	// Send drops the frame instead of hitting a closed channel.
	cl.Send(frame)
}

func (c *Core) Manager() *BoardManager {
	return c.boardMgr
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *Frame {
	return c.broadcast
}

func (c *Core) WatcherCount(scopeKey string) int {
	return c.boardMgr.WatcherCount(scopeKey)
}
