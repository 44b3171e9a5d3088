// Package config loads punch settings from ~/.punch/config.toml,
// creating an annotated default file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration for punch.
type Config struct {
	// DefaultUser is used when no --user flag is given.
	DefaultUser string `toml:"default_user"`
	// DataDir overrides the default ~/.punch data directory.
	DataDir string `toml:"data_dir"`

	Remote RemoteConfig `toml:"remote"`
	Sync   SyncConfig   `toml:"sync"`
}

// RemoteConfig points at the attendance backend.
type RemoteConfig struct {
	// BaseURL of the backend, e.g. "https://attendance.example.com".
	// Empty means no remote: punch runs permanently offline and queues
	// every mutation.
	BaseURL string `toml:"base_url"`
	// TokenURL, ClientID and ClientSecret enable OAuth2 client-credentials
	// auth. Leave empty for unauthenticated endpoints.
	TokenURL     string `toml:"token_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SyncConfig tunes the connectivity monitor and the offline queue.
type SyncConfig struct {
	// ProbeIntervalSeconds is the cadence of connectivity probes in watch mode.
	ProbeIntervalSeconds int `toml:"probe_interval_seconds"`
	// OfflineThreshold is how many consecutive failed probes count as offline.
	OfflineThreshold int `toml:"offline_threshold"`
	// QueueCap bounds the unsynced offline queue; 0 = unbounded. When the
	// cap is exceeded the oldest unsynced mutations are dropped and the
	// loss is reported.
	QueueCap int `toml:"queue_cap"`
}

const (
	// DefaultUser is the fallback user identity for a single-person setup.
	DefaultUser = "me"
	// DefaultProbeInterval is the probe cadence in seconds.
	DefaultProbeInterval = 30
	// DefaultOfflineThreshold matches the monitor's debounce default.
	DefaultOfflineThreshold = 2
)

func defaultConfig() Config {
	return Config{
		DefaultUser: DefaultUser,
		Sync: SyncConfig{
			ProbeIntervalSeconds: DefaultProbeInterval,
			OfflineThreshold:     DefaultOfflineThreshold,
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# punch configuration – ~/.punch/config.toml
#
# All settings are optional; the defaults below work out of the box for a
# single user with no backend (fully offline operation).

# User identity recorded on attendance records. Override per call with --user.
default_user = "me"

# Data directory override. Empty = ~/.punch.
data_dir = ""

[remote]
# Base URL of the attendance backend, e.g. "https://attendance.example.com".
# Empty = no remote; every mutation is queued until one is configured.
base_url = ""

# OAuth2 client-credentials settings. Leave empty for open endpoints.
token_url = ""
client_id = ""
client_secret = ""

[sync]
# Seconds between connectivity probes in "punch watch".
probe_interval_seconds = 30

# Consecutive failed probes before punch considers itself offline.
offline_threshold = 2

# Maximum unsynced mutations kept while offline; 0 = unbounded.
# Above the cap the oldest unsynced mutations are dropped (reported as data loss).
queue_cap = 0
`

func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".punch", "config.toml"), nil
}

// Load reads the config file, creating it with annotated defaults on first
// run. Zero-value fields are filled with built-in defaults so callers always
// get a usable Config.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path. Split out for tests.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	if cfg.DefaultUser == "" {
		cfg.DefaultUser = DefaultUser
	}
	if cfg.Sync.ProbeIntervalSeconds <= 0 {
		cfg.Sync.ProbeIntervalSeconds = DefaultProbeInterval
	}
	if cfg.Sync.OfflineThreshold <= 0 {
		cfg.Sync.OfflineThreshold = DefaultOfflineThreshold
	}

	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
