package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workpunch/punch/internal/config"
)

func TestLoadFromMissingWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultUser, cfg.DefaultUser)
	assert.Equal(t, config.DefaultProbeInterval, cfg.Sync.ProbeIntervalSeconds)
	assert.Equal(t, config.DefaultOfflineThreshold, cfg.Sync.OfflineThreshold)
	assert.Zero(t, cfg.Sync.QueueCap)

	// First run leaves the annotated template behind.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_user")
	assert.Contains(t, string(data), "[remote]")

	// The template itself parses back to the defaults.
	cfg2, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestLoadFromCustomValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_user = "alice"

[remote]
base_url = "https://attendance.example.com"
token_url = "https://auth.example.com/token"
client_id = "punch-cli"
client_secret = "s3cret"

[sync]
probe_interval_seconds = 5
offline_threshold = 3
queue_cap = 100
`), 0o600))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.DefaultUser)
	assert.Equal(t, "https://attendance.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, "punch-cli", cfg.Remote.ClientID)
	assert.Equal(t, 5, cfg.Sync.ProbeIntervalSeconds)
	assert.Equal(t, 3, cfg.Sync.OfflineThreshold)
	assert.Equal(t, 100, cfg.Sync.QueueCap)
}

func TestLoadFromFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[remote]
base_url = "https://attendance.example.com"
`), 0o600))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultUser, cfg.DefaultUser)
	assert.Equal(t, config.DefaultProbeInterval, cfg.Sync.ProbeIntervalSeconds)
	assert.Equal(t, config.DefaultOfflineThreshold, cfg.Sync.OfflineThreshold)
}

func TestLoadFromBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_user = `), 0o600))

	_, err := config.LoadFrom(path)
	assert.Error(t, err)
}
