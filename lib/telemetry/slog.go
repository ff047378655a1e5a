package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitSlog replaces the default logger with a text handler on stderr.
func InitSlog(debug bool) {
	InitSlogTo(os.Stderr, debug)
}

func InitSlogTo(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}
