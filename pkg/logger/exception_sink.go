package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrOpenSink is returned when the exception log cannot be opened.
var ErrOpenSink = errors.New("logger: failed to open exception log")

// ExceptionSink appends one JSON line per Report to a file.
type ExceptionSink struct {
	f   *os.File
	log *slog.Logger
}

// NewExceptionSink opens path for appending, creating parent directories.
func NewExceptionSink(path string) (*ExceptionSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Join(ErrOpenSink, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Join(ErrOpenSink, err)
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// The report carries its own time.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return &ExceptionSink{f: f, log: slog.New(h)}, nil
}

// Record appends r. The JSON handler serializes concurrent writes.
func (s *ExceptionSink) Record(ctx context.Context, r Report) {
	s.log.LogAttrs(ctx, slog.LevelError, r.Message, r.Attrs()...)
}

// Close closes the underlying file.
func (s *ExceptionSink) Close() error {
	return s.f.Close()
}
