// Package runner drives a Nexus without a terminal UI: one goroutine owns
// the Nexus and serializes clock ticks and inbox commands into it.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moshez/Pomodouroboros/internal/inbox"
	"github.com/moshez/Pomodouroboros/internal/nexus"
)

// Runner owns a Nexus for the lifetime of Run.
type Runner struct {
	n        *nexus.Nexus
	commands <-chan inbox.Command
	log      *zap.Logger

	// TickInterval is used when Ticks is nil.
	TickInterval time.Duration
	// Ticks overrides the internal ticker. Each received time is passed to
	// Nexus.Tick.
	Ticks <-chan time.Time
	// Now defaults to time.Now.
	Now func() time.Time
}

// New returns a Runner applying commands to n. commands may be nil.
func New(n *nexus.Nexus, commands <-chan inbox.Command, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		n:            n,
		commands:     commands,
		log:          log.Named("runner"),
		TickInterval: time.Second,
		Now:          time.Now,
	}
}

// Run ticks the Nexus once immediately and then on every tick, applying
// commands as they arrive, until ctx is cancelled. A closed command channel
// stops command handling but not ticking.
func (r *Runner) Run(ctx context.Context) error {
	ticks := r.Ticks
	if ticks == nil {
		t := time.NewTicker(r.TickInterval)
		defer t.Stop()
		ticks = t.C
	}
	commands := r.commands

	r.tick(r.Now())
	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticks:
			r.tick(now)

		case c, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			r.apply(c)
		}
	}
}

func (r *Runner) tick(now time.Time) {
	if err := r.n.Tick(now); err != nil {
		r.log.Warn("tick failed", zap.Error(err))
	}
}

func (r *Runner) apply(c inbox.Command) {
	msg, err := Apply(r.n, c, r.Now())
	if err != nil {
		r.log.Warn("command rejected",
			zap.String("verb", string(c.Verb)),
			zap.String("arg", c.Arg),
			zap.Error(err),
		)
		return
	}
	r.log.Info("command applied", zap.String("verb", string(c.Verb)), zap.String("outcome", msg))
}
