package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turndownhq/turndown/internal/domain"
)

func TestPropertyCreateAndGet(t *testing.T) {
	repo := NewPropertyRepository()
	ctx := context.Background()

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, property))

	got, err := repo.GetByCode(ctx, property.Code)
	require.NoError(t, err)
	assert.Equal(t, property.Code, got.Code)
	assert.Equal(t, "Seaside Inn", got.Name)
	assert.Empty(t, got.Employees)
}

func TestPropertyCreateDuplicateCode(t *testing.T) {
	repo := NewPropertyRepository()
	ctx := context.Background()

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, property))

	other := *property
	other.Name = "Imposter Inn"
	assert.ErrorIs(t, repo.Create(ctx, &other), domain.ErrPropertyAlreadyExists)
}

func TestPropertyGetByCodeNotFound(t *testing.T) {
	repo := NewPropertyRepository()

	_, err := repo.GetByCode(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestPropertyAddEmployee(t *testing.T) {
	repo := NewPropertyRepository()
	ctx := context.Background()

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, property))

	require.NoError(t, repo.AddEmployee(ctx, property.Code, "Alice"))
	require.NoError(t, repo.AddEmployee(ctx, property.Code, "Bob"))
	require.NoError(t, repo.AddEmployee(ctx, property.Code, "Alice"), "duplicate add is a no-op")

	got, err := repo.GetByCode(ctx, property.Code)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Employees)

	assert.ErrorIs(t, repo.AddEmployee(ctx, "ZZZZZZ", "Alice"), domain.ErrPropertyNotFound)
}

func TestPropertyGetReturnsCopy(t *testing.T) {
	repo := NewPropertyRepository()
	ctx := context.Background()

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, property))
	require.NoError(t, repo.AddEmployee(ctx, property.Code, "Alice"))

	got, err := repo.GetByCode(ctx, property.Code)
	require.NoError(t, err)
	got.Employees[0] = "Mallory"

	again, err := repo.GetByCode(ctx, property.Code)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, again.Employees, "stored state must not be mutable through returned values")
}
