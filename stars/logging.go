// =============================================================================
// logging.go - Structured Logging Setup
// =============================================================================
//
// The client library logs connection lifecycle events through a zerolog
// Logger handed to it in starsprotocol.Config. This file builds that logger
// for the terminal client: a human-readable console writer on stderr, with
// the level taken from the resolved settings and the cosmetic options from
// the environment.
//
//	STARS_LOG_LEVEL      trace|debug|info|warn|error|off
//	STARS_LOG_TIMESTAMP  true|false
//	STARS_LOG_NOCOLOR    true|false
//
// =============================================================================

package main

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "STARS_LOG_LEVEL"
	EnvLogTimestamp = "STARS_LOG_TIMESTAMP"
	EnvLogNoColor   = "STARS_LOG_NOCOLOR"
)

// logProfile selects the defaults before environment overrides.
type logProfile int

const (
	profileRuntime logProfile = iota
	profileTest
)

type logConfig struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

func defaultLogConfig(profile logProfile) logConfig {
	switch profile {
	case profileTest:
		return logConfig{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return logConfig{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// applyLogEnv overrides cfg from the STARS_LOG_* variables. Unset or
// unparsable values are ignored.
func applyLogEnv(cfg *logConfig) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// GO CONCEPT: Value Loggers
// -------------------------
// zerolog.Logger is a small value, not a pointer. With() returns a
// context builder and .Logger() a new Logger carrying the added fields;
// the original is unchanged, so components derive their own loggers
// freely.
// newLogger builds a console logger writing to out.
func newLogger(cfg logConfig, out io.Writer) zerolog.Logger {
	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(w).Level(cfg.Level).With().Str("app", appName)
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}
