package log

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"
)

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(DebugLevel), WithFormatter(&JSONFormatter{}), WithOutput(NewWriterOutput(&buf)))
	l = l.With(Component("queue"), Str("project", "books"))
	l.Info("claimed", Uint64("id", 7), Err(errors.New("boom")))

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got["msg"] != "claimed" || got["level"] != "info" {
		t.Fatalf("unexpected record: %v", got)
	}
	if got["component"] != "queue" || got["project"] != "books" {
		t.Fatalf("missing base fields: %v", got)
	}
	if got["error"] != "boom" {
		t.Fatalf("error field: %v", got["error"])
	}
	if c, _ := got["caller"].(string); !strings.Contains(c, "logger_test.go") {
		t.Fatalf("caller should point at the test, got %q", c)
	}
}

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{}), WithOutput(NewWriterOutput(&buf)))
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown", Int("n", 1))
	if !strings.Contains(buf.String(), "WARN  shown n=1") {
		t.Fatalf("text line: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyConfigRejectsUnknownFormat(t *testing.T) {
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ApplyConfig(&Config{Level: "error", Format: "json", Quiet: true}); err != nil {
		t.Fatalf("apply: %v", err)
	}
}

func TestToStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormatter(&TextFormatter{}), WithOutput(NewWriterOutput(&buf)))
	std := ToStdLogger(l)
	std.Print("from stdlib")
	if !strings.Contains(buf.String(), "INFO  from stdlib") {
		t.Fatalf("std line: %q", buf.String())
	}
	var _ *stdlog.Logger = std
}
