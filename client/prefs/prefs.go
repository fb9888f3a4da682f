// Package prefs persists the last used board parameters so the client
// can rebind to the same property, date and employee on startup.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	appName    = "turndown"
	configFile = "config.json"
)

// Preferences is what survives between sessions. Missing or corrupt
// files load as empty preferences; a fresh session starts unbound.
type Preferences struct {
	PropertyCode string `json:"propertyCode"`
	Date         string `json:"date"`
	Employee     string `json:"employee"`
}

type Manager interface {
	Get() *Preferences
	Set(prefs *Preferences) error
}

type manager struct {
	configPath string
	cache      *Preferences
	mu         sync.RWMutex
}

func NewManager() Manager {
	configDir := getConfigDir()
	configPath := filepath.Join(configDir, configFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create config directory: %v\n", err)
	}

	return &manager{
		configPath: configPath,
	}
}

func (m *manager) Get() *Preferences {
	m.mu.RLock()
	if m.cache != nil {
		defer m.mu.RUnlock()
		return m.cache
	}
	m.mu.RUnlock()

	// Cache miss - load from disk
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if m.cache != nil {
		return m.cache
	}

	empty := &Preferences{}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return empty
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		m.cache = empty
		return m.cache
	}

	m.cache = &prefs

	return &prefs
}

func (m *manager) Set(prefs *Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the file
	tmpPath := m.configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}
	if err := os.Rename(tmpPath, m.configPath); err != nil {
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}

	m.mu.Lock()
	m.cache = nil
	m.mu.Unlock()

	return nil
}

// getConfigDir returns the appropriate configuration directory based on OS
func getConfigDir() string {
	var configDir string

	if os.Getenv("XDG_CONFIG_HOME") != "" {
		configDir = filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	} else if home, err := os.UserHomeDir(); err == nil {
		switch {
		case fileExists(filepath.Join(home, ".config")):
			// Linux/Unix: ~/.config/turndown
			configDir = filepath.Join(home, ".config", appName)
		default:
			// Windows: %USERPROFILE%\AppData\Roaming\turndown
			// macOS: ~/Library/Application Support/turndown
			configDir = filepath.Join(home, getOSSpecificDir(), appName)
		}
	} else {
		// Last resort: current directory
		configDir = "."
	}

	return configDir
}

func getOSSpecificDir() string {
	if os.Getenv("APPDATA") != "" {
		return filepath.Join("AppData", "Roaming")
	}

	return filepath.Join("Library", "Application Support")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
