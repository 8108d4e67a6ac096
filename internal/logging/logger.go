package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// maxValueLen caps string values. Player input and backend replies end up in
// log attributes; the transcript keeps the full text.
const maxValueLen = 200

// New creates the application logger writing to w.
// It standardizes common keys (e.g., "error" -> "err") and shortens long
// string values.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	if a.Value.Kind() == slog.KindString {
		if r := []rune(a.Value.String()); len(r) > maxValueLen {
			a.Value = slog.StringValue(string(r[:maxValueLen]) + "...")
		}
	}
	return a
}

// OpenFile creates a logger appending to the file at path. The terminal
// belongs to the renderer while the game runs, so logs never go to stdout.
// Every record carries the process id so that runs sharing one file can be
// separated.
func OpenFile(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level).With("pid", os.Getpid()), f, nil
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
