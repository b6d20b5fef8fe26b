// Package logging wraps log/slog with the xerrors annotation pattern
// used in Prayush09-MusicRecognition/fileformat/wav.go (xerrors.New(err)
// paired with slog.Any("error", err)), so callers that bubble an error
// up to a log line get a stack-annotated cause instead of a bare string.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/mdobak/go-xerrors"
)

// Logger is the thin handle every ambient call site logs through.
type Logger struct {
	*slog.Logger
}

// New builds a Logger writing leveled, structured text to stderr.
func New() *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{Logger: slog.New(h)}
}

// Err annotates err with a captured stack via xerrors and logs it at
// error level under the given operation name.
func (l *Logger) Err(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	annotated := xerrors.New(err)
	l.ErrorContext(ctx, op, slog.Any("error", annotated))
}
