// Package logger configures slog for the command line tooling, extending the
// standard level ladder with the trace and fatal extremes.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"disorder.dev/shandler"
)

// ParseLevel maps a level name onto a slog level. Trace sits below debug and
// fatal above error, matching the handler's extended levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return shandler.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return shandler.LevelFatal, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New builds a text logger writing to w at the given level, rendering the
// extended levels with readable names instead of offset arithmetic.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelNames,
	}))
}

func replaceLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch level {
	case shandler.LevelTrace:
		a.Value = slog.StringValue("TRACE")
	case shandler.LevelFatal:
		a.Value = slog.StringValue("FATAL")
	}
	return a
}

// Fatal logs at the fatal level and terminates the process. The os.Exit(1)
// function is called which terminates the program immediately.
func Fatal(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), shandler.LevelFatal, msg, args...)
	os.Exit(1)
}
