// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()           // level from LOG_LEVEL env (default: info)
//	logging.SetLevel("debug") // adjust at runtime, e.g. on config reload
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// level is shared with the handler so SetLevel takes effect on a live
// logger without reinstalling it.
var level = new(slog.LevelVar)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	level.Set(levelFromName(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

// SetLevel changes the level of the running logger. Unknown names fall
// back to info.
func SetLevel(name string) {
	level.Set(levelFromName(name))
}

func levelFromName(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
