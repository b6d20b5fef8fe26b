package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{Logger: slog.New(h)}
}

func TestErrLogsOpAndCause(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	log.Err(context.Background(), "cmd.add", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "cmd.add") {
		t.Fatalf("log output missing op: %q", out)
	}
	if !strings.Contains(out, "boom") {
		t.Fatalf("log output missing wrapped cause: %q", out)
	}
	if !strings.Contains(out, "level=ERROR") {
		t.Fatalf("log output not at error level: %q", out)
	}
}

func TestErrIgnoresNilError(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	log.Err(context.Background(), "cmd.add", nil)

	if buf.Len() != 0 {
		t.Fatalf("Err(nil) wrote output, want none: %q", buf.String())
	}
}
