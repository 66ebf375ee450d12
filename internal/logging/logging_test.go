package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewAutoFormatUsesJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "auto", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hello", slog.String("song", "a.txt"))
	out := buf.String()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"song":"a.txt"`) {
		t.Fatalf("expected json record, got %q", out)
	}
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected format error")
	}
}
