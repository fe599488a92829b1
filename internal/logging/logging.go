package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New returns a file-backed logger. The TUI owns the terminal, so logs never
// go to stdout/stderr; an empty path (or an unwritable file) yields a
// disabled logger rather than an error.
func New(path, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				w = f
			}
		}
	}
	if w == nil {
		return zerolog.Nop()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
