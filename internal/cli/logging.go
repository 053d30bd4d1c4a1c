package cli

import (
	"io"
	"log/slog"
)

// newLogger creates the text logger used by all commands.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	var level slog.Level
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
