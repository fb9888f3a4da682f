package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn         *connWrapper
	Frames       chan *Frame
	ID           string `json:"id"`
	Scope        string `json:"scope"`
	PropertyCode string `json:"propertyCode"`
	Date         string `json:"date,omitempty"`

	mu     sync.Mutex
	closed bool
}

func NewPropertyClient(conn *websocket.Conn, id, code string) *Client {
	return &Client{
		conn:         newConnWrapper(conn),
		Frames:       make(chan *Frame, 64), // buffered to avoid dead-locks on slow clients
		ID:           id,
		Scope:        PropertyScope(code),
		PropertyCode: code,
	}
}

func NewRoomsClient(conn *websocket.Conn, id, code, date string) *Client {
	return &Client{
		conn:         newConnWrapper(conn),
		Frames:       make(chan *Frame, 64),
		ID:           id,
		Scope:        RoomsScope(code, date),
		PropertyCode: code,
		Date:         date,
	}
}

// Send queues a frame for the write loop. It reports false when the
// client has already been unregistered or its buffer is full; either
// way the frame is dropped and the next snapshot supersedes it.
func (c *Client) Send(frame *Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Frames <- frame:
		return true
	default:
		return false
	}
}

// closeFrames shuts the outbound channel exactly once. After this any
// in-flight Send becomes a no-op instead of a panic.
func (c *Client) closeFrames() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Frames)
}

// ReadLoop drains the connection until the peer hangs up. Subscribers
// never send frames; all writes go through the HTTP API.
func (c *Client) ReadLoop(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}
	}
}

func (c *Client) WriteLoop() {
	defer func() {
		_ = c.conn.Close()
	}()

	for frame := range c.Frames {
		if err := c.conn.WriteJSON(frame); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}
