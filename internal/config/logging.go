package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates a logger writing JSON to logFile and, when console is
// non-nil, text to console. The TUI passes a nil console because the
// terminal belongs to the alternate screen.
// Returns the logger and a cleanup function to close the file.
func SetupLogger(logFile string, level slog.Level, console io.Writer) (*slog.Logger, func() error) {
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if console == nil {
			return slog.New(slog.DiscardHandler), func() error { return nil }
		}
		logger := newLogger(console, nil, level)
		logger.Warn("failed to open log file, using console only", "error", err, "file", logFile)
		return logger, func() error { return nil }
	}
	return newLogger(console, file, level), file.Close
}

// newLogger fans out to a text handler on console and a JSON handler on
// file. Either writer may be nil.
func newLogger(console, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, opts))
	}
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}
