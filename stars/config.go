// =============================================================================
// config.go - Settings Resolution
// =============================================================================
//
// Settings are resolved in four layers, each overriding the previous one:
//
//  1. built-in defaults
//  2. the TOML config file (~/.stars.toml, or --config)
//  3. the environment, after loading ./.env if it exists
//  4. command-line flags that were given explicitly
//
// The resolved settings are turned into a starsprotocol.Config for the
// client.
//
// Example ~/.stars.toml:
//
//	node      = "term1"
//	host      = "stars.example.org"
//	port      = 6057
//	keyfile   = "~/stars/term1.key"
//	timeout   = 2.5      # seconds
//	callback  = true
//	send_rate = 50       # frames per second, 0 = unlimited
//	log_level = "warn"
//
// =============================================================================

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/IMSS-PhotonFactory/StarsInterface2/starsprotocol"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read in layer 3.
const (
	EnvNode     = "STARS_NODE"
	EnvHost     = "STARS_HOST"
	EnvPort     = "STARS_PORT"
	EnvKeyword  = "STARS_KEYWORD"
	EnvKeyFile  = "STARS_KEYFILE"
	EnvTimeout  = "STARS_TIMEOUT"
	EnvCallback = "STARS_CALLBACK"
	EnvSendRate = "STARS_SEND_RATE"
)

const (
	defaultNode = "term1"
	defaultHost = "localhost"
)

// settings is the fully resolved configuration of the terminal client.
type settings struct {
	Node     string
	Host     string
	Port     int
	Keyword  string
	KeyFile  string
	Timeout  time.Duration
	Callback bool
	SendRate float64
	LogLevel string
}

func defaultSettings() settings {
	return settings{
		Node:     defaultNode,
		Host:     defaultHost,
		Port:     starsprotocol.DefaultPort,
		Timeout:  starsprotocol.DefaultTimeout,
		LogLevel: "info",
	}
}

// GO CONCEPT: Struct Tags
// -----------------------
// The backquoted `toml:"send_rate"` after a field is a struct tag. The
// toml decoder reads it through reflection to map file keys to fields;
// the Go compiler ignores it.
// fileSettings mirrors the TOML file. Timeout is in seconds.
type fileSettings struct {
	Node     string  `toml:"node"`
	Host     string  `toml:"host"`
	Port     int     `toml:"port"`
	Keyword  string  `toml:"keyword"`
	KeyFile  string  `toml:"keyfile"`
	Timeout  float64 `toml:"timeout"`
	Callback bool    `toml:"callback"`
	SendRate float64 `toml:"send_rate"`
	LogLevel string  `toml:"log_level"`
}

// loadFileSettings applies the keys defined in the TOML file at path onto
// s. A missing file is an error only when required is true.
func loadFileSettings(path string, required bool, s *settings) error {
	if path == "" {
		return nil
	}
	path = expandHome(path)
	if !required && !fileExists(path) {
		return nil
	}

	var raw fileSettings
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("node") {
		s.Node = strings.TrimSpace(raw.Node)
	}
	if meta.IsDefined("host") {
		s.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		s.Port = raw.Port
	}
	if meta.IsDefined("keyword") {
		s.Keyword = raw.Keyword
	}
	if meta.IsDefined("keyfile") {
		s.KeyFile = expandHome(strings.TrimSpace(raw.KeyFile))
	}
	if meta.IsDefined("timeout") {
		s.Timeout = starsprotocol.TimeoutFromSeconds(raw.Timeout)
	}
	if meta.IsDefined("callback") {
		s.Callback = raw.Callback
	}
	if meta.IsDefined("send_rate") {
		s.SendRate = raw.SendRate
	}
	if meta.IsDefined("log_level") {
		s.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return nil
}

// loadDotEnv loads envFileName into the process environment. Variables
// that are already set keep their value; a missing file is not an error.
func loadDotEnv(path string) error {
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// GO CONCEPT: Injecting the Environment
// -------------------------------------
// applyEnv takes a lookup function rather than calling os.LookupEnv
// itself. main passes os.LookupEnv; tests pass a closure over a map and
// never touch the process environment.
// applyEnv overrides s from the STARS_* variables found by lookup.
func applyEnv(s *settings, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvNode); ok {
		s.Node = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvHost); ok {
		s.Host = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		s.Port = port
	}
	if v, ok := lookup(EnvKeyword); ok {
		s.Keyword = v
	}
	if v, ok := lookup(EnvKeyFile); ok {
		s.KeyFile = expandHome(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvTimeout); ok {
		secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		s.Timeout = starsprotocol.TimeoutFromSeconds(secs)
	}
	if v, ok := lookup(EnvCallback); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCallback, err)
		}
		s.Callback = b
	}
	if v, ok := lookup(EnvSendRate); ok {
		rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSendRate, err)
		}
		s.SendRate = rate
	}
	if v, ok := lookup(EnvLogLevel); ok {
		s.LogLevel = strings.TrimSpace(v)
	}
	return nil
}

// validate checks the settings before any connection attempt.
func (s settings) validate() error {
	switch {
	case s.Node == "":
		return fmt.Errorf("node name is empty")
	case strings.ContainsAny(s.Node, " >\r\n"):
		return fmt.Errorf("node name %q contains a separator", s.Node)
	case s.Host == "":
		return fmt.Errorf("host is empty")
	case s.Port <= 0 || s.Port > 65535:
		return fmt.Errorf("port %d out of range", s.Port)
	case s.Timeout < 0:
		return fmt.Errorf("timeout must not be negative")
	case s.SendRate < 0:
		return fmt.Errorf("send rate must not be negative")
	}
	if _, ok := parseLevel(s.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	return nil
}

// logConfig returns the logging setup for s, with STARS_LOG_TIMESTAMP and
// STARS_LOG_NOCOLOR applied.
func (s settings) logConfig() logConfig {
	cfg := defaultLogConfig(profileRuntime)
	applyLogEnv(&cfg)
	if lvl, ok := parseLevel(s.LogLevel); ok {
		cfg.Level = lvl
	}
	return cfg
}

// clientConfig converts s into the library configuration.
func (s settings) clientConfig(logger *zerolog.Logger) starsprotocol.Config {
	cfg := starsprotocol.DefaultConfig(s.Node, s.Host)
	cfg.Port = s.Port
	cfg.Keyword = s.Keyword
	if s.KeyFile != "" {
		cfg.KeywordFile = s.KeyFile
	}
	cfg.DefaultTimeout = s.Timeout
	cfg.SendRate = s.SendRate
	cfg.Logger = logger
	return cfg
}
