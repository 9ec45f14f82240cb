// =============================================================================
// logging_test.go - Tests for Logging Setup (logging.go)
// =============================================================================

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range tests {
		got, ok := parseLevel(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseBool(t *testing.T) {
	if v, ok := parseBool("true"); !v || !ok {
		t.Error("true should parse")
	}
	if _, ok := parseBool(""); ok {
		t.Error("empty should be unset")
	}
	if _, ok := parseBool("maybe"); ok {
		t.Error("maybe should be rejected")
	}
}

func TestApplyLogEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")

	cfg := defaultLogConfig(profileRuntime)
	applyLogEnv(&cfg)
	if cfg.Level != zerolog.ErrorLevel || cfg.Timestamp || !cfg.NoColor {
		t.Errorf("got %+v", cfg)
	}
}

// The level from the settings wins over STARS_LOG_LEVEL; the cosmetic
// options still come from the environment.
func TestSettingsLogConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "true")

	s := defaultSettings()
	s.LogLevel = "debug"
	cfg := s.logConfig()
	if cfg.Level != zerolog.DebugLevel || !cfg.NoColor {
		t.Errorf("got %+v", cfg)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(defaultLogConfig(profileTest), &buf)

	logger.Debug().Str("node", "term1").Msg("connected")
	logger.Trace().Msg("hidden")

	out := buf.String()
	for _, want := range []string{"connected", "node=term1", "app=stars"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("trace should be filtered at debug level")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("test profile should not colour output")
	}
}
