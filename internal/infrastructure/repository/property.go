package repository

import (
	"context"
	"sync"

	"github.com/turndownhq/turndown/internal/domain"
)

type propertyRepository struct {
	properties map[string]*domain.Property // code -> Property
	mu         *sync.RWMutex
}

func NewPropertyRepository() domain.PropertyRepository {
	return &propertyRepository{
		properties: make(map[string]*domain.Property),
		mu:         &sync.RWMutex{},
	}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	if property == nil || property.Code == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.properties[property.Code]; exists {
		return domain.ErrPropertyAlreadyExists
	}

	cpy := *property
	cpy.Employees = append([]string(nil), property.Employees...)
	r.properties[property.Code] = &cpy

	return nil
}

func (r *propertyRepository) GetByCode(ctx context.Context, code string) (*domain.Property, error) {
	if code == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	property, exists := r.properties[code]
	if !exists {
		return nil, domain.ErrPropertyNotFound
	}

	// Return a copy to prevent external mutation
	cpy := *property
	cpy.Employees = append([]string(nil), property.Employees...)

	return &cpy, nil
}

// AddEmployee is idempotent: adding a name already on the list is a no-op.
func (r *propertyRepository) AddEmployee(ctx context.Context, code string, name string) error {
	if code == "" || name == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	property, exists := r.properties[code]
	if !exists {
		return domain.ErrPropertyNotFound
	}

	property.AddEmployee(name)

	return nil
}
