package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot backends.
const (
	SnapshotBackendFile   = "file"
	SnapshotBackendPebble = "pebble"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	ProjectsDir             string  `json:"projectsDir" yaml:"projectsDir"`
	DataDir                 string  `json:"dataDir" yaml:"dataDir"`
	HTTPAddr                string  `json:"httpAddr" yaml:"httpAddr"`
	SnapshotBackend         string  `json:"snapshotBackend" yaml:"snapshotBackend"`
	SnapshotIntervalSeconds int     `json:"snapshotIntervalSeconds" yaml:"snapshotIntervalSeconds"`
	RestoreQueueSnapshot    bool    `json:"restoreQueueSnapshot" yaml:"restoreQueueSnapshot"`
	LeaseTimeoutSeconds     int     `json:"leaseTimeoutSeconds" yaml:"leaseTimeoutSeconds"`
	SweepIntervalSeconds    int     `json:"sweepIntervalSeconds" yaml:"sweepIntervalSeconds"`
	ClaimRatePerSecond      float64 `json:"claimRatePerSecond" yaml:"claimRatePerSecond"`
	ClaimBurst              int     `json:"claimBurst" yaml:"claimBurst"`
	AdminToken              string  `json:"adminToken" yaml:"adminToken"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		ProjectsDir:             "projects",
		HTTPAddr:                ":8080",
		SnapshotBackend:         SnapshotBackendFile,
		SnapshotIntervalSeconds: 30,
		SweepIntervalSeconds:    10,
		ClaimBurst:              1,
	}
}

// SnapshotInterval is the period of the durability task.
func (c Config) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalSeconds) * time.Second
}

// LeaseTimeout is zero when lease expiry is disabled.
func (c Config) LeaseTimeout() time.Duration {
	return time.Duration(c.LeaseTimeoutSeconds) * time.Second
}

// SweepInterval is how often expired leases are reclaimed.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.ProjectsDir == "" {
		return fmt.Errorf("config: projectsDir is required")
	}
	switch c.SnapshotBackend {
	case SnapshotBackendFile:
	case SnapshotBackendPebble:
		if c.DataDir == "" {
			return fmt.Errorf("config: dataDir is required for the pebble snapshot backend")
		}
	default:
		return fmt.Errorf("config: unknown snapshotBackend %q", c.SnapshotBackend)
	}
	if c.SnapshotIntervalSeconds <= 0 {
		return fmt.Errorf("config: snapshotIntervalSeconds must be positive")
	}
	if c.LeaseTimeoutSeconds < 0 {
		return fmt.Errorf("config: leaseTimeoutSeconds must not be negative")
	}
	if c.LeaseTimeoutSeconds > 0 && c.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("config: sweepIntervalSeconds must be positive when leases expire")
	}
	if c.ClaimRatePerSecond < 0 || c.ClaimBurst < 0 {
		return fmt.Errorf("config: claim rate and burst must not be negative")
	}
	return nil
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
