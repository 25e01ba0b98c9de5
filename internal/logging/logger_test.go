package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, buf *bytes.Buffer) *slog.Logger {
	t.Helper()
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(buf, levelVar))
}

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(newBufferLogger(t, &buf), "manager")

	logger.Info("record submitted", String(FieldRecordID, "abc"), String(FieldBatch, "batches/b1"))

	line := buf.String()
	if !strings.Contains(line, "[manager]") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "record_id=abc") || !strings.Contains(line, "batch=batches/b1") {
		t.Fatalf("expected attributes in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as key=value in %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(t, &buf)

	logger.Warn("poll failed", String("error", "connection refused by peer"))

	if !strings.Contains(buf.String(), `error="connection refused by peer"`) {
		t.Fatalf("expected quoted value in %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("suppressed")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "suppressed") {
		t.Fatalf("info line should be suppressed: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("warn line should be emitted: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
