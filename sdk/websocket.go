package turndown

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/turndownhq/turndown/sdk/internal/requestconfig"
	"github.com/turndownhq/turndown/sdk/option"
)

// Frame types pushed by the server. Every data frame carries the FULL
// current state of its scope, never a delta.
const (
	PropertySnapshot = "snapshot.property"
	RoomsSnapshot    = "snapshot.rooms"

	ErrorEvent    = "error"
	ScopeNotFound = "error.not_found"
)

type PropertySnapshotData struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Employees []string `json:"employees"`
	CreatedAt string   `json:"createdAt"`
}

type RoomsSnapshotData struct {
	PropertyCode string `json:"propertyCode"`
	Date         string `json:"date"`
	Rooms        []Room `json:"rooms"`
}

// SubscriptionError is a server-sent error frame.
type SubscriptionError struct {
	Scope   string
	Code    string
	Message string
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription %s: %s", e.Scope, e.Message)
}

// NotFound reports whether the subscribed scope does not exist.
func (e *SubscriptionError) NotFound() bool {
	return e.Code == "SCOPE_NOT_FOUND"
}

// PropertySubscription streams full property documents. The first
// snapshot arrives immediately after connecting.
type PropertySubscription struct {
	conn      *websocket.Conn
	snapshots chan PropertySnapshotData
	errs      chan error
	mu        sync.Mutex
	closed    bool
}

func (s *PropertySubscription) Snapshots() <-chan PropertySnapshotData {
	return s.snapshots
}

func (s *PropertySubscription) Errs() <-chan error {
	return s.errs
}

func (s *PropertySubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

func (s *PropertySubscription) listen() {
	defer close(s.snapshots)
	defer close(s.errs)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				pushErr(s.errs, err)
			}
			return
		}

		frameType := gjson.GetBytes(raw, "type").String()
		switch frameType {
		case PropertySnapshot:
			var data PropertySnapshotData
			if err := json.Unmarshal([]byte(gjson.GetBytes(raw, "data").Raw), &data); err != nil {
				pushErr(s.errs, fmt.Errorf("malformed property snapshot: %w", err))
				continue
			}
			// Consumer stopped draining; drop the frame, the next
			// snapshot supersedes it
			select {
			case s.snapshots <- data:
			default:
			}
		case ErrorEvent, ScopeNotFound:
			pushErr(s.errs, frameError(raw))
		}
	}
}

// RoomsSubscription streams full room boards for one (property, date)
// scope.
type RoomsSubscription struct {
	conn      *websocket.Conn
	snapshots chan RoomsSnapshotData
	errs      chan error
	mu        sync.Mutex
	closed    bool
}

func (s *RoomsSubscription) Snapshots() <-chan RoomsSnapshotData {
	return s.snapshots
}

func (s *RoomsSubscription) Errs() <-chan error {
	return s.errs
}

func (s *RoomsSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

func (s *RoomsSubscription) listen() {
	defer close(s.snapshots)
	defer close(s.errs)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				pushErr(s.errs, err)
			}
			return
		}

		frameType := gjson.GetBytes(raw, "type").String()
		switch frameType {
		case RoomsSnapshot:
			var data RoomsSnapshotData
			if err := json.Unmarshal([]byte(gjson.GetBytes(raw, "data").Raw), &data); err != nil {
				pushErr(s.errs, fmt.Errorf("malformed rooms snapshot: %w", err))
				continue
			}
			select {
			case s.snapshots <- data:
			default:
			}
		case ErrorEvent, ScopeNotFound:
			pushErr(s.errs, frameError(raw))
		}
	}
}

// pushErr never blocks. An abandoned subscription must not pin its
// read goroutine on a full channel; dropped errors are superseded by
// whatever made the consumer stop listening.
func pushErr(errs chan error, err error) {
	select {
	case errs <- err:
	default:
	}
}

// Subscribe opens a websocket that streams the property document.
func (r *PropertyService) Subscribe(ctx context.Context, code string, opts ...option.RequestOption) (*PropertySubscription, error) {
	opts = append(r.Options, opts...)
	if code == "" {
		return nil, ErrMissingCodeParameter
	}

	path := fmt.Sprintf("api/properties/%s/subscribe", code)
	conn, err := dialWebSocket(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	sub := &PropertySubscription{
		conn:      conn,
		snapshots: make(chan PropertySnapshotData, 16),
		errs:      make(chan error, 4),
	}
	go sub.listen()

	return sub, nil
}

// Subscribe opens a websocket that streams the room board for one date.
func (r *RoomService) Subscribe(ctx context.Context, code, date string, opts ...option.RequestOption) (*RoomsSubscription, error) {
	opts = append(r.Options, opts...)
	if code == "" {
		return nil, ErrMissingCodeParameter
	}
	if date == "" {
		return nil, ErrMissingDateParameter
	}

	path := fmt.Sprintf("api/properties/%s/dates/%s/rooms/subscribe", code, date)
	conn, err := dialWebSocket(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	sub := &RoomsSubscription{
		conn:      conn,
		snapshots: make(chan RoomsSnapshotData, 16),
		errs:      make(chan error, 4),
	}
	go sub.listen()

	return sub, nil
}

func dialWebSocket(ctx context.Context, path string, opts ...option.RequestOption) (*websocket.Conn, error) {
	cfg, err := requestconfig.NewRequestConfig(ctx, http.MethodGet, "", nil, nil, opts...)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL.String()

	// Convert http(s) to ws(s)
	wsURL := baseURL
	if after, ok := strings.CutPrefix(baseURL, "https://"); ok {
		wsURL = "wss://" + after
	} else if after0, ok0 := strings.CutPrefix(baseURL, "http://"); ok0 {
		wsURL = "ws://" + after0
	}

	fullURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(wsURL, "/"), path)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to websocket: %w", err)
	}

	return conn, nil
}

func frameError(raw []byte) *SubscriptionError {
	return &SubscriptionError{
		Scope:   gjson.GetBytes(raw, "scope").String(),
		Code:    gjson.GetBytes(raw, "data.code").String(),
		Message: gjson.GetBytes(raw, "data.message").String(),
	}
}
