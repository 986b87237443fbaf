package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide text handler. debug lowers the
// level to Debug and records source locations.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})))
}
