// ABOUTME: IronLog configuration management with backend selection.
// ABOUTME: Handles settings, log level, and the storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/ironlog/internal/storage"
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Backends lists the supported storage engines.
var Backends = []string{BackendSQLite, BackendBadger}

// Config stores ironlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts ironlog.db here. Badger puts its files in ironlog.badger/.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/ironlog.
	DataDir string `json:"data_dir,omitempty"`

	// AppName prefixes backup filenames. Defaults to "ironlog".
	AppName string `json:"app_name,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetAppName returns the backup filename prefix.
func (c *Config) GetAppName() string {
	if c.AppName == "" {
		return "ironlog"
	}
	return c.AppName
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
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

// StoragePath returns where the given backend keeps its data under dataDir.
func StoragePath(backend, dataDir string) (string, error) {
	switch backend {
	case BackendSQLite:
		return filepath.Join(dataDir, "ironlog.db"), nil
	case BackendBadger:
		return filepath.Join(dataDir, "ironlog.badger"), nil
	default:
		return "", fmt.Errorf("unknown backend: %q", backend)
	}
}

// Open opens a Repository for backend at its path under dataDir.
func Open(backend, dataDir string) (storage.Repository, error) {
	path, err := StoragePath(backend, dataDir)
	if err != nil {
		return nil, err
	}
	if backend == BackendBadger {
		return storage.OpenKV(path)
	}
	return storage.Open(path)
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return Open(c.GetBackend(), c.GetDataDir())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "ironlog", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
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
