package ws

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers on any origin may subscribe; writes go through the API
		return true
	},
}

var (
	ErrScopeNotFound  = errors.New("scope not found")
	ErrClientNotFound = errors.New("client not found")
)

type boardScope struct {
	Key     string
	Clients map[string]*Client
}

// BoardManager tracks which clients watch which scope. A scope is either
// a property document or one dated room board.
type BoardManager struct {
	scopes map[string]*boardScope // scope key → watchers
	mu     sync.RWMutex
}

func NewBoardManager() *BoardManager {
	return &BoardManager{
		scopes: make(map[string]*boardScope),
	}
}

func (bm *BoardManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

func (bm *BoardManager) AddClient(cl *Client) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	scope, ok := bm.scopes[cl.Scope]
	if !ok {
		scope = &boardScope{
			Key:     cl.Scope,
			Clients: make(map[string]*Client),
		}
		bm.scopes[cl.Scope] = scope
	}

	if _, exists := scope.Clients[cl.ID]; !exists {
		scope.Clients[cl.ID] = cl
	}
}

func (bm *BoardManager) RemoveClient(cl *Client) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if scope, ok := bm.scopes[cl.Scope]; ok {
		if _, ok := scope.Clients[cl.ID]; ok {
			delete(scope.Clients, cl.ID)
			cl.closeFrames()

			if len(scope.Clients) == 0 {
				delete(bm.scopes, cl.Scope)
			}
		}
	}
}

func (bm *BoardManager) WatcherCount(scopeKey string) int {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	scope, ok := bm.scopes[scopeKey]
	if !ok {
		return 0
	}
	return len(scope.Clients)
}

// BroadcastToScope fans a frame out to every watcher of the frame's
// scope. A scope with no watchers is not an error; snapshots are pushed
// after every mutation regardless of who is listening.
func (bm *BoardManager) BroadcastToScope(frame *Frame) error {
	bm.mu.RLock()
	scope, ok := bm.scopes[frame.Scope]
	bm.mu.RUnlock()
	if !ok {
		return nil
	}

	for _, cl := range scope.Clients {
		if !cl.Send(frame) {
			// Client is too slow or already gone – drop the frame, the
			// next snapshot supersedes it anyway
			log.Printf("client %s not accepting frames, dropping", cl.ID)
		}
	}
	return nil
}
