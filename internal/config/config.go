// Package config resolves where agenda keeps its data and how it
// talks to the outside world. Values come from an optional
// ~/.agenda/config.toml, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Storage selects the snapshot backend and where it lives.
type Storage struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// CalDAV holds the settings for the publish command.
type CalDAV struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Calendar string `toml:"calendar"`
}

type Config struct {
	LogLevel string  `toml:"log_level"`
	Storage  Storage `toml:"storage"`
	CalDAV   CalDAV  `toml:"caldav"`
}

// Load builds the effective configuration: defaults, then the config
// file if present, then environment variables. A missing config file
// is fine; an unreadable or malformed one is not.
func Load() (*Config, error) {
	dir, err := homeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel: "info",
		Storage:  Storage{Backend: BackendJSON},
	}

	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	switch cfg.Storage.Backend {
	case BackendJSON:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = filepath.Join(dir, "events.json")
		}
	case BackendSQLite:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = filepath.Join(dir, "events.db")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

// homeDir returns the agenda data directory, AGENDA_HOME or ~/.agenda.
func homeDir() (string, error) {
	if dir := os.Getenv("AGENDA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".agenda"), nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AGENDA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AGENDA_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("AGENDA_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("AGENDA_CALDAV_URL"); v != "" {
		cfg.CalDAV.URL = v
	}
	if v := os.Getenv("AGENDA_CALDAV_USERNAME"); v != "" {
		cfg.CalDAV.Username = v
	}
	if v := os.Getenv("AGENDA_CALDAV_PASSWORD"); v != "" {
		cfg.CalDAV.Password = v
	}
	if v := os.Getenv("AGENDA_CALDAV_CALENDAR"); v != "" {
		cfg.CalDAV.Calendar = v
	}
}
