package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithSink(false, zapcore.AddSync(&buf))
	log.Debug("hidden")
	log.Warn("shown")
	_ = log.Sync()
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "paradox") {
		t.Fatalf("expected named warn line, got %q", out)
	}

	buf.Reset()
	log = NewWithSink(true, zapcore.AddSync(&buf))
	log.Debug("visible")
	_ = log.Sync()
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug logger dropped debug line: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}
