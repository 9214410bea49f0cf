package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide text handler. verbose lowers the
// level to debug. logs always go to stderr so stdout stays reserved
// for command output and wire protocols.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
