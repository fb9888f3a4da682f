package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/turndownhq/turndown/internal/domain"
)

type scopeKey struct {
	code string
	date string
}

type roomRepository struct {
	rooms map[scopeKey]map[string]*domain.Room // (code, date) -> number -> Room
	mu    *sync.RWMutex
}

func NewRoomRepository() domain.RoomRepository {
	return &roomRepository{
		rooms: make(map[scopeKey]map[string]*domain.Room),
		mu:    &sync.RWMutex{},
	}
}

// Create fails if a room with that number already exists for the scope. The
// key is unique within (property, date); overwrite is never silent.
func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room == nil || room.PropertyCode == "" || room.Date == "" || room.Number == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := scopeKey{code: room.PropertyCode, date: room.Date}
	scope, exists := r.rooms[key]
	if !exists {
		scope = make(map[string]*domain.Room)
		r.rooms[key] = scope
	}

	if _, exists := scope[room.Number]; exists {
		return domain.ErrRoomAlreadyExists
	}

	cpy := *room
	cpy.LastUpdated = time.Now().UTC()
	scope[room.Number] = &cpy

	return nil
}

func (r *roomRepository) ListByDate(ctx context.Context, code string, date string) ([]domain.Room, error) {
	if code == "" || date == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	scope, exists := r.rooms[scopeKey{code: code, date: date}]
	if !exists || len(scope) == 0 {
		return []domain.Room{}, nil
	}

	rooms := make([]domain.Room, 0, len(scope))
	for _, room := range scope {
		rooms = append(rooms, *room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return domain.LessRoomNumber(rooms[i].Number, rooms[j].Number)
	})

	return rooms, nil
}

// UpdateField patches a single field and stamps LastUpdated. It never
// replaces the whole document.
func (r *roomRepository) UpdateField(ctx context.Context, code, date, number string, field domain.RoomField, value string) error {
	if code == "" || date == "" || number == "" || !field.Valid() {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	scope, exists := r.rooms[scopeKey{code: code, date: date}]
	if !exists {
		return domain.ErrRoomNotFound
	}

	room, exists := scope[number]
	if !exists {
		return domain.ErrRoomNotFound
	}

	switch field {
	case domain.FieldStatus:
		status, err := domain.ParseStatus(value)
		if err != nil {
			return err
		}
		room.Status = status
	case domain.FieldNotes:
		room.Notes = value
	}

	room.LastUpdated = time.Now().UTC()

	return nil
}
