// Package config loads the session configuration from a JSON file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidJSON indicates the file is not well-formed JSON.
	ErrInvalidJSON = errors.New("config: invalid JSON")

	// ErrInvalidValue indicates a setting holds an out-of-range value.
	ErrInvalidValue = errors.New("config: invalid value")
)

// Config holds the session settings. The zero value is not usable;
// start from Default.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// EventLogCapacity bounds the diagnostic record ring.
	EventLogCapacity int

	// ScriptDir is where automation scripts are looked up.
	ScriptDir string

	// CapitalizedArePlayers applies the capitalized-name heuristic when
	// classifying unmatched room lines.
	CapitalizedArePlayers bool

	// Source tags events produced by text ingestion.
	Source string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:              "info",
		EventLogCapacity:      128,
		ScriptDir:             "scripts",
		CapitalizedArePlayers: false,
		Source:                "capture",
	}
}

// Load reads settings from a JSON file, filling anything absent from the
// defaults. A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	doc := string(data)
	if !gjson.Valid(doc) {
		return cfg, fmt.Errorf("%w: %s", ErrInvalidJSON, path)
	}

	if v := gjson.Get(doc, "log.level"); v.Exists() {
		cfg.LogLevel = v.String()
	}
	if v := gjson.Get(doc, "events.log_capacity"); v.Exists() {
		cfg.EventLogCapacity = int(v.Int())
	}
	if v := gjson.Get(doc, "scripts.dir"); v.Exists() {
		cfg.ScriptDir = v.String()
	}
	if v := gjson.Get(doc, "room.capitalized_are_players"); v.Exists() {
		cfg.CapitalizedArePlayers = v.Bool()
	}
	if v := gjson.Get(doc, "capture.source"); v.Exists() {
		cfg.Source = v.String()
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks the settings for usable values.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.LogLevel)
	}
	if c.EventLogCapacity <= 0 {
		return fmt.Errorf("%w: events.log_capacity %d", ErrInvalidValue, c.EventLogCapacity)
	}
	return nil
}

// WriteDefault writes the default settings to path, creating parent
// directories as needed. Refuses to clobber an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}

	def := Default()
	doc := "{}"
	var err error
	for _, set := range []struct {
		key   string
		value any
	}{
		{"log.level", def.LogLevel},
		{"events.log_capacity", def.EventLogCapacity},
		{"scripts.dir", def.ScriptDir},
		{"room.capitalized_are_players", def.CapitalizedArePlayers},
		{"capture.source", def.Source},
	} {
		doc, err = sjson.Set(doc, set.key, set.value)
		if err != nil {
			return fmt.Errorf("config: build defaults: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(doc+"\n"), 0o644)
}
