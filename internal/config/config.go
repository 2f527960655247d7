// ABOUTME: Mapty configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, and the durable slot factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/harperreed/mapty/internal/charm"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/storage"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// DefaultZoomLevel is the map zoom used when none is configured.
const DefaultZoomLevel = 13

// Backends lists the accepted backend names.
var Backends = []string{BackendSQLite, BackendBadger, BackendCharm, BackendMemory}

// Config stores mapty configuration.
type Config struct {
	// Backend selects the durable slot: "sqlite" (default), "badger", "charm" or "memory".
	Backend string `json:"backend,omitempty" env:"MAPTY_BACKEND"`

	// DataDir is the root directory for data storage.
	// SQLite puts mapty.db here, badger uses a badger/ folder.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/mapty.
	DataDir string `json:"data_dir,omitempty" env:"MAPTY_DATA_DIR"`

	ZoomLevel int `json:"zoom_level,omitempty" env:"MAPTY_ZOOM_LEVEL"`

	// Home is the position reported to the session when it asks for the user's location.
	Home *models.Location `json:"home,omitempty"`

	LogLevel string `json:"log_level,omitempty" env:"MAPTY_LOG_LEVEL"`
	LogFile  string `json:"log_file,omitempty" env:"MAPTY_LOG_FILE"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetZoomLevel returns the configured zoom, defaulting to 13.
func (c *Config) GetZoomLevel() int {
	if c.ZoomLevel <= 0 {
		return DefaultZoomLevel
	}
	return c.ZoomLevel
}

// GetLogFile returns the log file path with ~ expanded, or "" for stderr.
func (c *Config) GetLogFile() string {
	return ExpandPath(c.LogFile)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// IsValidBackend reports whether name is an accepted backend.
func IsValidBackend(name string) bool {
	for _, b := range Backends {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// OpenSlot opens the durable slot for the configured backend.
func (c *Config) OpenSlot() (storage.Slot, error) {
	return c.OpenSlotFor(c.GetBackend())
}

// OpenSlotFor opens the durable slot for a named backend, using this
// config's data directory.
func (c *Config) OpenSlotFor(backend string) (storage.Slot, error) {
	dataDir := c.GetDataDir()

	switch strings.ToLower(backend) {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "mapty.db"))
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		return charm.InitClient()
	case BackendMemory:
		return storage.NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "mapty", "config.json")
}

// Load reads config from disk and applies MAPTY_* environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// LoadFile reads config from disk without environment overrides.
func LoadFile() (*Config, error) {
	return loadFile(GetConfigPath())
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
