package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENDA_HOME", dir)

	cfg, err := Load()
	require.NoError(t, err, "missing config file should be fine")
	assert.Equal(t, "info", cfg.LogLevel, "default log level should be info")
	assert.Equal(t, BackendJSON, cfg.Storage.Backend, "default backend should be json")
	assert.Equal(t, filepath.Join(dir, "events.json"), cfg.Storage.Path, "default path should live under AGENDA_HOME")
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENDA_HOME", dir)

	content := `log_level = "debug"

[storage]
backend = "sqlite"

[caldav]
url = "https://dav.example.com/"
username = "marie"
calendar = "perso"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err, "should parse config file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "events.db"), cfg.Storage.Path, "sqlite backend should default to events.db")
	assert.Equal(t, "https://dav.example.com/", cfg.CalDAV.URL)
	assert.Equal(t, "marie", cfg.CalDAV.Username)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENDA_HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`log_level = "debug"`), 0o644))
	t.Setenv("AGENDA_LOG_LEVEL", "warn")
	t.Setenv("AGENDA_STORAGE_PATH", "/tmp/elsewhere.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "env should win over the config file")
	assert.Equal(t, "/tmp/elsewhere.json", cfg.Storage.Path, "env should set the storage path")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENDA_HOME", dir)
	t.Setenv("AGENDA_STORAGE_BACKEND", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err, "unknown backend should be rejected")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENDA_HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("log_level = ["), 0o644))

	_, err := Load()
	require.Error(t, err, "malformed config should fail loudly")
}
