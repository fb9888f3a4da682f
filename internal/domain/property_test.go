package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected character %q in code %q", r, code)
		}
	}
}

func TestCodeAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, r := range "0O1I" {
		assert.False(t, strings.ContainsRune(CodeAlphabet, r))
	}
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("ABC234"))
	assert.False(t, ValidCode("ABC23"), "too short")
	assert.False(t, ValidCode("ABC2345"), "too long")
	assert.False(t, ValidCode("ABC10O"), "ambiguous characters")
	assert.False(t, ValidCode("abc234"), "lowercase")
	assert.False(t, ValidCode(""))
}

func TestNewProperty(t *testing.T) {
	property, err := NewProperty("  Seaside Inn  ")
	require.NoError(t, err)

	assert.Equal(t, "Seaside Inn", property.Name)
	assert.True(t, ValidCode(property.Code))
	assert.NotNil(t, property.Employees)
	assert.Empty(t, property.Employees)
	assert.False(t, property.CreatedAt.IsZero())
}

func TestNewPropertyRejectsBlankName(t *testing.T) {
	_, err := NewProperty("   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddEmployeeSetUnion(t *testing.T) {
	property, err := NewProperty("Seaside Inn")
	require.NoError(t, err)

	assert.True(t, property.AddEmployee("Alice"))
	assert.True(t, property.AddEmployee("Bob"))
	assert.False(t, property.AddEmployee("Alice"), "duplicate must not change the list")
	assert.False(t, property.AddEmployee("  "), "blank must not change the list")

	assert.Equal(t, []string{"Alice", "Bob"}, property.Employees)
	assert.True(t, property.HasEmployee("Alice"))
	assert.False(t, property.HasEmployee("alice"), "matching is case sensitive")
}
