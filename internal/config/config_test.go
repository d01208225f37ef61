package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.SnapshotIntervalSeconds != 30 {
		t.Fatalf("snapshot interval default")
	}
	if cfg.SnapshotBackend != SnapshotBackendFile {
		t.Fatalf("snapshot backend default")
	}
	if cfg.RestoreQueueSnapshot || cfg.LeaseTimeoutSeconds != 0 {
		t.Fatalf("queue restore and lease expiry must be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tracker.json")
	data := []byte(`{"projectsDir":"/srv/projects","snapshotIntervalSeconds":5,"leaseTimeoutSeconds":600,"claimRatePerSecond":2.5}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProjectsDir != "/srv/projects" || cfg.SnapshotIntervalSeconds != 5 {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.LeaseTimeout().Seconds() != 600 || cfg.ClaimRatePerSecond != 2.5 {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unset fields keep defaults, got %q", cfg.HTTPAddr)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tracker.yaml")
	data := []byte("projectsDir: /srv/p\nsnapshotBackend: pebble\ndataDir: /srv/data\nrestoreQueueSnapshot: true\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SnapshotBackend != SnapshotBackendPebble || cfg.DataDir != "/srv/data" || !cfg.RestoreQueueSnapshot {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.SnapshotIntervalSeconds != 30 {
		t.Fatalf("unset fields keep defaults")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tracker.json")
	if err := os.WriteFile(file, []byte("{"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("TRACKER_PROJECTS_DIR", "/env/projects")
	t.Setenv("TRACKER_RESTORE_QUEUE_SNAPSHOT", "true")
	t.Setenv("TRACKER_LEASE_TIMEOUT_SECONDS", "120")
	t.Setenv("TRACKER_CLAIM_BURST", "not-a-number")
	FromEnv(&cfg)
	if cfg.ProjectsDir != "/env/projects" {
		t.Fatalf("env override projects dir")
	}
	if !cfg.RestoreQueueSnapshot {
		t.Fatalf("env override bool")
	}
	if cfg.LeaseTimeoutSeconds != 120 {
		t.Fatalf("env override lease timeout")
	}
	if cfg.ClaimBurst != 1 {
		t.Fatalf("invalid numbers are ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.SnapshotBackend = "s3" }, "snapshotBackend"},
		{"pebble without data dir", func(c *Config) { c.SnapshotBackend = SnapshotBackendPebble }, "dataDir"},
		{"zero interval", func(c *Config) { c.SnapshotIntervalSeconds = 0 }, "snapshotIntervalSeconds"},
		{"expiry without sweep", func(c *Config) { c.LeaseTimeoutSeconds = 60; c.SweepIntervalSeconds = 0 }, "sweepIntervalSeconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestProjectFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.json")
	raw := `{"project-meta":{"name":"books","items-folder":"books"},"project-status":{"paused":false},"automation":{"auto-queue":true}}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	pf, err := LoadProjectFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pf.Status.Paused = true
	if err := pf.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := LoadProjectFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !again.Status.Paused || again.Meta.Name != "books" {
		t.Fatalf("unexpected %+v", again)
	}
	if !strings.Contains(string(again.Automation), "auto-queue") {
		t.Fatalf("automation block lost: %s", again.Automation)
	}
}

func TestLoadProjectFileValidation(t *testing.T) {
	dir := t.TempDir()
	for name, raw := range map[string]string{
		"noname.json":   `{"project-meta":{"items-folder":"x"}}`,
		"nofolder.json": `{"project-meta":{"name":"x"}}`,
		"escape.json":   `{"project-meta":{"name":"x","items-folder":"../etc"}}`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadProjectFile(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestNewProjectFile(t *testing.T) {
	dir := t.TempDir()
	pf, err := NewProjectFile(dir, "books", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := pf.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadProjectFile(filepath.Join(dir, "books.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Meta.ItemsFolder != "books" || loaded.Status.Paused {
		t.Fatalf("unexpected %+v", loaded)
	}
	if _, err := NewProjectFile(dir, "a/b", ""); err == nil {
		t.Fatalf("expected rejection of a name with a separator")
	}
}

func TestListProjectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "a-leaderboard.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := ListProjectFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "a.json" || filepath.Base(got[1]) != "b.json" {
		t.Fatalf("got %v", got)
	}
}
