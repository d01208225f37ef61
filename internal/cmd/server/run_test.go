package serverrun

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/tracker/internal/config"
	logpkg "github.com/rzbill/tracker/pkg/log"
)

func TestGetenvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{
			name:     "environment variable set",
			key:      "TEST_VAR",
			def:      "default",
			envValue: "env_value",
			expected: "env_value",
		},
		{
			name:     "environment variable not set",
			key:      "TEST_VAR_NOT_SET",
			def:      "default",
			envValue: "",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)
			result := getenvDefault(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("getenvDefault(%s, %s) = %s, expected %s", tt.key, tt.def, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	body := "projectsDir: " + dir + "\nhttpAddr: \":9000\"\nsnapshotIntervalSeconds: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TRACKER_SNAPSHOT_INTERVAL_SECONDS", "7")
	t.Setenv("TRACKER_HTTP_ADDR", ":9001")

	cfg, err := LoadConfig(path, func(c *cfgpkg.Config) { c.HTTPAddr = ":9002" })
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProjectsDir != dir {
		t.Errorf("projectsDir %q", cfg.ProjectsDir)
	}
	if cfg.SnapshotIntervalSeconds != 7 {
		t.Errorf("env should override file: %d", cfg.SnapshotIntervalSeconds)
	}
	if cfg.HTTPAddr != ":9002" {
		t.Errorf("flags should override env: %q", cfg.HTTPAddr)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := LoadConfig("", func(c *cfgpkg.Config) { c.SnapshotBackend = "tape" })
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRunServesAndSnapshotsOnShutdown(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "books"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "books", "001.txt"), []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	conf := `{"project-meta":{"name":"books","items-folder":"books"},"project-status":{"paused":false}}`
	if err := os.WriteFile(filepath.Join(dir, "books.json"), []byte(conf), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := cfgpkg.Default()
	cfg.ProjectsDir = dir
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.RestoreQueueSnapshot = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Config: cfg,
			Log:    logpkg.Config{Level: "error", Quiet: true},
			Ready:  func(addr string) { ready <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server not ready")
	}

	resp, err := http.Get("http://" + addr + "/books/item/get?username=alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "{\"id\":0,\"values\":[\"a\"]}\n" {
		t.Fatalf("claim: %d %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("run did not stop")
	}

	saved, err := os.ReadFile(filepath.Join(dir, "books", ".queue-save.txt"))
	if err != nil {
		t.Fatalf("queue snapshot: %v", err)
	}
	if string(saved) != "a\nb\n" {
		t.Fatalf("queue snapshot %q", saved)
	}
	if _, err := os.Stat(filepath.Join(dir, "books"+cfgpkg.LeaderboardSuffix)); err != nil {
		t.Fatalf("leaderboard snapshot: %v", err)
	}
}

func TestRunFailsOnInvalidAddress(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.ProjectsDir = t.TempDir()
	cfg.HTTPAddr = "127.0.0.1:99999"
	err := Run(context.Background(), Options{Config: cfg, Log: logpkg.Config{Level: "error", Quiet: true}})
	if err == nil {
		t.Fatalf("expected listen error")
	}
}
