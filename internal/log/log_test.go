package log

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestConfigureJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holical.log")
	if err := Configure(Config{Level: "info", Format: "json", Output: path}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	t.Cleanup(func() { _ = Configure(Config{}) })

	Debug("hidden at info")
	Info("visible", "country", "DE", "dangling")
	Error("failed", errors.New("boom"), "year", 2025)
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(lines), data)
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["msg"] != "visible" || first["country"] != "DE" {
		t.Errorf("unexpected entry %v", first)
	}
	if _, ok := first["dangling"]; ok {
		t.Errorf("dangling key must be dropped")
	}
	if !strings.Contains(lines[1], `"err":"boom"`) {
		t.Errorf("error entry lacks err field: %s", lines[1])
	}

	SetLevel(LevelDebug)
	Debug("now visible")
	Sync()
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "now visible") {
		t.Errorf("debug entry missing after SetLevel")
	}
}
