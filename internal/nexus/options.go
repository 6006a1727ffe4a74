package nexus

import (
	"time"

	"go.uber.org/zap"
)

// Default interval lengths.
const (
	DefaultPomodoroDuration = 25 * time.Minute
	DefaultGraceDuration    = 2 * time.Minute
	DefaultBreakDuration    = 5 * time.Minute
)

// Options configures a Nexus.
type Options struct {
	PomodoroDuration time.Duration
	GraceDuration    time.Duration
	BreakDuration    time.Duration
	Logger           *zap.Logger // nil disables logging
}

// DefaultOptions returns the default interval lengths with logging disabled.
func DefaultOptions() Options {
	return Options{
		PomodoroDuration: DefaultPomodoroDuration,
		GraceDuration:    DefaultGraceDuration,
		BreakDuration:    DefaultBreakDuration,
	}
}

// withDefaults fills zero or negative fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PomodoroDuration <= 0 {
		o.PomodoroDuration = d.PomodoroDuration
	}
	if o.GraceDuration <= 0 {
		o.GraceDuration = d.GraceDuration
	}
	if o.BreakDuration <= 0 {
		o.BreakDuration = d.BreakDuration
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
