package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir is where the pebble snapshot backend lives when dataDir is
// unset: $XDG_DATA_HOME/tracker, then ~/.local/share/tracker, then ./data.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tracker")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}
	return filepath.Join(homeDir, ".local", "share", "tracker")
}

// ResolvePaths fills DataDir for the pebble backend and makes both
// directories absolute so later chdir calls cannot move them.
func (c *Config) ResolvePaths() error {
	if c.SnapshotBackend == SnapshotBackendPebble && c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	for _, p := range []*string{&c.ProjectsDir, &c.DataDir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	return nil
}
