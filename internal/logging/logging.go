package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide slog instance.
var Logger *slog.Logger

// Init installs a slog logger writing to stderr. format is "text" or "json";
// level is one of debug, info, warn, error.
func Init(level, format string) *slog.Logger {
	return InitWriter(os.Stderr, level, format)
}

func InitWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// GORM and other std log users end up in the same stream.
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)

	return Logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
