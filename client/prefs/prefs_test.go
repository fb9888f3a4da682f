package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempManager(t *testing.T) Manager {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return NewManager()
}

func TestGetMissingFileReturnsEmpty(t *testing.T) {
	m := tempManager(t)

	got := m.Get()
	require.NotNil(t, got)
	assert.Empty(t, got.PropertyCode)
	assert.Empty(t, got.Date)
	assert.Empty(t, got.Employee)
}

func TestSetGetRoundTrip(t *testing.T) {
	m := tempManager(t)

	require.NoError(t, m.Set(&Preferences{
		PropertyCode: "ABC234",
		Date:         "2026-08-31",
		Employee:     "Alice",
	}))

	got := m.Get()
	assert.Equal(t, "ABC234", got.PropertyCode)
	assert.Equal(t, "2026-08-31", got.Date)
	assert.Equal(t, "Alice", got.Employee)
}

func TestSetSurvivesNewManager(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	first := NewManager()
	require.NoError(t, first.Set(&Preferences{PropertyCode: "ABC234", Date: "2026-08-31"}))

	second := NewManager()
	got := second.Get()
	assert.Equal(t, "ABC234", got.PropertyCode)
}

func TestGetCorruptFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "turndown")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), []byte("{not json"), 0644))

	m := NewManager()
	got := m.Get()
	require.NotNil(t, got)
	assert.Empty(t, got.PropertyCode, "corrupt preferences load as empty, not an error")
}

func TestSetInvalidatesCache(t *testing.T) {
	m := tempManager(t)

	require.NoError(t, m.Set(&Preferences{PropertyCode: "ABC234"}))
	assert.Equal(t, "ABC234", m.Get().PropertyCode)

	require.NoError(t, m.Set(&Preferences{PropertyCode: "XYZ789"}))
	assert.Equal(t, "XYZ789", m.Get().PropertyCode)
}
