package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jpalmerr/moistureboard/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg, err := config.Parse([]byte("log_level: warn\nendpoint:\n  url: http://localhost:8000/api/readings\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer
	logger := newLogger(&buf, cfg)
	logger.Info("dropped")
	logger.Warn("kept", "page", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1 (info filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["app"] != "moistureboard" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLogger_Text(t *testing.T) {
	cfg, err := config.Parse([]byte("log_format: text\nendpoint:\n  url: http://localhost:8000/api/readings\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer
	newLogger(&buf, cfg).Info("fetched", "page", 3)

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("text format produced JSON: %q", out)
	}
	if !strings.Contains(out, "fetched") || !strings.Contains(out, "page") {
		t.Errorf("output = %q", out)
	}
}
