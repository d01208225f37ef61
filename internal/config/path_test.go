package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != filepath.Join("/custom/data", "tracker") {
		t.Fatalf("got %s", got)
	}
}

func TestDefaultDataDirHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/worker")
	got := DefaultDataDir()
	if !strings.HasSuffix(got, filepath.Join("share", "tracker")) {
		t.Fatalf("got %s", got)
	}
}

func TestResolvePaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	cfg := Default()
	cfg.SnapshotBackend = SnapshotBackendPebble
	cfg.ProjectsDir = "projects"
	if err := cfg.ResolvePaths(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !filepath.IsAbs(cfg.ProjectsDir) {
		t.Fatalf("projects dir not absolute: %s", cfg.ProjectsDir)
	}
	if cfg.DataDir != filepath.Join("/xdg", "tracker") {
		t.Fatalf("data dir %s", cfg.DataDir)
	}

	fileCfg := Default()
	if err := fileCfg.ResolvePaths(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fileCfg.DataDir != "" {
		t.Fatalf("file backend should not get a data dir: %s", fileCfg.DataDir)
	}
}
