package config

import (
	"os"
	"strconv"
)

// FromEnv overlays TRACKER_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("TRACKER_PROJECTS_DIR"); v != "" {
		cfg.ProjectsDir = v
	}
	if v := os.Getenv("TRACKER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TRACKER_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("TRACKER_SNAPSHOT_BACKEND"); v != "" {
		cfg.SnapshotBackend = v
	}
	if v := os.Getenv("TRACKER_SNAPSHOT_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SnapshotIntervalSeconds = n
		}
	}
	if v := os.Getenv("TRACKER_RESTORE_QUEUE_SNAPSHOT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RestoreQueueSnapshot = b
		}
	}
	if v := os.Getenv("TRACKER_LEASE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LeaseTimeoutSeconds = n
		}
	}
	if v := os.Getenv("TRACKER_SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SweepIntervalSeconds = n
		}
	}
	if v := os.Getenv("TRACKER_CLAIM_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ClaimRatePerSecond = f
		}
	}
	if v := os.Getenv("TRACKER_CLAIM_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ClaimBurst = n
		}
	}
	if v := os.Getenv("TRACKER_ADMIN_TOKEN"); v != "" {
		cfg.AdminToken = v
	}
}
