package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	log.InfoObj("run recorded", "run", map[string]any{"framework": "soc2"})
	log.DebugObj("hidden", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "run recorded" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field: %v", entry)
	}
	run, ok := entry["run"].(map[string]any)
	if !ok || run["framework"] != "soc2" {
		t.Fatalf("unexpected run field %v", entry["run"])
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("WARNING", &buf)
	log.InfoObj("skip", "k", 1)
	log.WarnObj("keep", "k", 2)
	if strings.Contains(buf.String(), "skip") || !strings.Contains(buf.String(), "keep") {
		t.Fatalf("unexpected output for warn level: %q", buf.String())
	}
}

func TestEnsure(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil input")
	}
	z := New("info", &bytes.Buffer{})
	if Ensure(z) != Logger(z) {
		t.Fatalf("expected logger to pass through")
	}
}
