package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/moshez/Pomodouroboros/internal/nexus"
)

// ProjectFile is the per-directory override read by LoadProject.
const ProjectFile = ".pomodouroboros"

// Config holds all configurable Pomodouroboros settings.
type Config struct {
	PomodoroDuration Duration `json:"pomodoro_duration,omitempty"`
	GraceDuration    Duration `json:"grace_duration,omitempty"`
	BreakDuration    Duration `json:"break_duration,omitempty"`
	TickInterval     Duration `json:"tick_interval,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`  // debug | info | warn | error
	LogFormat string `json:"log_format,omitempty"` // console | json
	LogFile   string `json:"log_file,omitempty"`

	MetricsAddr string `json:"metrics_addr,omitempty"` // empty disables the endpoint
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		PomodoroDuration: Duration(nexus.DefaultPomodoroDuration),
		GraceDuration:    Duration(nexus.DefaultGraceDuration),
		BreakDuration:    Duration(nexus.DefaultBreakDuration),
		TickInterval:     Duration(time.Second),
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// Dir returns the directory holding the global config file:
// $XDG_CONFIG_HOME/pomodouroboros, else ~/.config/pomodouroboros.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pomodouroboros"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pomodouroboros"), nil
}

// LoadGlobal reads the global config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json"), true)
}

// LoadProject reads .pomodouroboros in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectFile, false)
}

// Load merges the global and project files.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, err
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, err
	}
	return Merge(global, project), nil
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, project} {
		if layer != nil {
			result.apply(layer)
		}
	}
	return result
}

func (c *Config) apply(o *Config) {
	if o.PomodoroDuration != 0 {
		c.PomodoroDuration = o.PomodoroDuration
	}
	if o.GraceDuration != 0 {
		c.GraceDuration = o.GraceDuration
	}
	if o.BreakDuration != 0 {
		c.BreakDuration = o.BreakDuration
	}
	if o.TickInterval != 0 {
		c.TickInterval = o.TickInterval
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
}

// Validate rejects non-positive durations and unknown log levels or formats.
func (c Config) Validate() error {
	durations := []struct {
		name string
		d    Duration
	}{
		{"pomodoro_duration", c.PomodoroDuration},
		{"grace_duration", c.GraceDuration},
		{"break_duration", c.BreakDuration},
		{"tick_interval", c.TickInterval},
	}
	for _, f := range durations {
		if f.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", f.name, f.d.Duration())
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Options converts the interval settings into Nexus options.
func (c Config) Options(log *zap.Logger) nexus.Options {
	return nexus.Options{
		PomodoroDuration: c.PomodoroDuration.Duration(),
		GraceDuration:    c.GraceDuration.Duration(),
		BreakDuration:    c.BreakDuration.Duration(),
		Logger:           log,
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
