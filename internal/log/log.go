// Package log is the robot's structured logger, shared by drivers, run
// modes and commands.
//
// The brick has no real-time clock and boots with its wall clock somewhere
// in 1970, so lines carry the time since the process started instead of a
// timestamp.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Config selects where lines go and how they look.
type Config struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to stdout.
	Output io.Writer
}

var (
	started = time.Now()
	level   = new(slog.LevelVar)
	current atomic.Pointer[slog.Logger]
)

func init() {
	current.Store(slog.New(slog.NewTextHandler(os.Stdout, handlerOptions())))
}

// Setup replaces the process logger. Loggers already taken with Subsystem
// or With keep writing through the old handler.
func Setup(c Config) error {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return err
	}
	w := c.Output
	if w == nil {
		w = os.Stdout
	}

	var h slog.Handler
	switch strings.ToLower(c.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, handlerOptions())
	case "json":
		h = slog.NewJSONHandler(w, handlerOptions())
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}

	level.Set(lvl)
	logger := slog.New(h)
	current.Store(logger)
	slog.SetDefault(logger)
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level, ReplaceAttr: uptime}
}

// uptime swaps the record time for the time since start.
func uptime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Duration("uptime", a.Value.Time().Sub(started).Round(time.Millisecond))
	}
	return a
}

// L returns the process logger.
func L() *slog.Logger {
	return current.Load()
}

func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// Subsystem returns a logger tagged with the part of the robot it speaks
// for, such as "keypad" or "hardware".
func Subsystem(name string, args ...any) *slog.Logger {
	return L().With(append([]any{"subsystem", name}, args...)...)
}

func With(args ...any) *slog.Logger {
	return L().With(args...)
}
