// Package nexus is the single authority over which interval is current. It
// validates and performs every transition, grades finished Pomodoros into
// the score ledger, tracks the streak and notifies the front end.
//
// A Nexus is not safe for concurrent use. Hosts funnel every call through
// one goroutine (see internal/runner and internal/tui).
package nexus

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/ledger"
	"github.com/moshez/Pomodouroboros/internal/streak"
)

// ErrInvalidState is returned when an operation is illegal for the current
// interval or intention. It is the same value as intention.ErrInvalidState.
var ErrInvalidState = intention.ErrInvalidState

// PomStartResult is the outcome of StartPomodoro when no error occurred.
type PomStartResult string

const (
	// Started: a Pomodoro began along with a new streak.
	Started PomStartResult = "Started"
	// Continued: a Pomodoro began and extended the current streak.
	Continued PomStartResult = "Continued"
	// OnBreak: refused because an unexpired break is current.
	OnBreak PomStartResult = "OnBreak"
	// AlreadyStarted: refused because an unexpired Pomodoro is current.
	AlreadyStarted PomStartResult = "AlreadyStarted"
)

// Nexus owns the current interval, the interval history, the intention
// registry, the score ledger and the streak count.
type Nexus struct {
	opts Options
	log  *zap.Logger

	current  interval.Interval // nil until first use
	history  []interval.Interval
	awaiting bool
	streak   int

	intentions *intention.Registry
	ledger     *ledger.Ledger
	ui         UIEventListener
}

// New returns a Nexus with no current interval. factory, if non-nil, builds
// the front end; otherwise NoUserInterface is used.
func New(opts Options, factory UserInterfaceFactory) *Nexus {
	opts = opts.withDefaults()
	n := &Nexus{
		opts:       opts,
		log:        opts.Logger.Named("nexus"),
		intentions: intention.NewRegistry(nil),
		ledger:     ledger.New(),
	}

	var ui UIEventListener = NoUserInterface{}
	if factory != nil {
		if built := factory(n); built != nil {
			ui = built
		}
	}
	n.ui = guarded{ui: ui, log: n.log}
	n.intentions.SetListener(n.ui)
	return n
}

// Options returns the effective configuration.
func (n *Nexus) Options() Options { return n.opts }

// StartPomodoro begins a Pomodoro for the pending intention id at now.
//
// OnBreak and AlreadyStarted are refusals, not errors, and leave state
// untouched. An expired Pomodoro that has not been evaluated blocks every
// start with ErrInvalidState until Evaluate is called.
func (n *Nexus) StartPomodoro(id string, now time.Time) (PomStartResult, error) {
	switch cur := n.current.(type) {
	case interval.Break:
		if !interval.IsExpired(cur, now) {
			return OnBreak, nil
		}
	case interval.Pomodoro:
		if !interval.IsExpired(cur, now) {
			return AlreadyStarted, nil
		}
		return "", fmt.Errorf("start pomodoro: current pomodoro is awaiting evaluation: %w", ErrInvalidState)
	}
	if err := n.checkTime("start pomodoro", now); err != nil {
		return "", err
	}

	in, err := n.intentions.Get(id)
	if err != nil {
		return "", fmt.Errorf("start pomodoro: %w", err)
	}
	if !in.Selectable() {
		return "", fmt.Errorf("start pomodoro: intention %s is %s: %w", in.ShortID(), in.Status, ErrInvalidState)
	}

	prev := n.current
	if prev != nil {
		n.history = append(n.history, interval.Ended(prev, now))
	}
	outcome := streak.Classify(n.history, now)
	n.streak = streak.Next(n.streak, outcome)
	n.awaiting = false
	n.current = interval.Pomodoro{
		Span:        interval.Span{Start: now},
		IntentionID: in.ID,
		Duration:    n.opts.PomodoroDuration,
	}

	n.log.Info("pomodoro started",
		zap.String("intention", in.ID),
		zap.String("outcome", string(outcome)),
		zap.Int("streak", n.streak),
	)
	if prev != nil {
		n.ui.IntervalEnd()
	}
	n.ui.IntervalStart(n.current)
	return PomStartResult(outcome), nil
}

// Evaluate grades the current Pomodoro, which must have run its full
// duration, records the score and opens a grace period at now.
func (n *Nexus) Evaluate(result interval.EvaluationResult, now time.Time) error {
	if !result.Valid() {
		return fmt.Errorf("evaluate: %q: %w", result, interval.ErrUnknownEvaluation)
	}
	pom, ok := n.current.(interval.Pomodoro)
	if !ok {
		return fmt.Errorf("evaluate: current interval is %s: %w", n.kind(), ErrInvalidState)
	}
	if err := n.checkTime("evaluate", now); err != nil {
		return err
	}
	if !interval.IsExpired(pom, now) {
		return fmt.Errorf("evaluate: pomodoro runs until %s: %w",
			pom.Start.Add(pom.Duration).Format(time.Kitchen), ErrInvalidState)
	}

	graded := interval.Ended(pom.WithEvaluation(result), now).(interval.Pomodoro)
	n.history = append(n.history, graded)
	ev := n.ledger.Record(result, now)
	n.awaiting = false
	n.current = interval.GracePeriod{
		Span:     interval.Span{Start: now},
		Follows:  graded,
		Duration: n.opts.GraceDuration,
	}

	n.log.Info("pomodoro evaluated",
		zap.String("intention", pom.IntentionID),
		zap.String("result", string(result)),
		zap.Float64("points", ev.Points),
		zap.Float64("total", n.ledger.Total(now)),
	)
	n.ui.IntervalEnd()
	n.ui.IntervalStart(n.current)
	return nil
}

// Tick advances time to now without a user command.
func (n *Nexus) Tick(now time.Time) error {
	if n.current == nil {
		n.current = interval.StartPrompt{Span: interval.Span{Start: now}}
		n.log.Debug("start prompt opened")
		n.ui.IntervalStart(n.current)
		return nil
	}
	if err := n.checkTime("tick", now); err != nil {
		return err
	}

	if !interval.IsExpired(n.current, now) {
		if _, ok := interval.Target(n.current); ok {
			f, err := interval.ElapsedFraction(n.current, now)
			if err != nil {
				return fmt.Errorf("tick: %w", err)
			}
			n.ui.IntervalProgress(f)
		}
		return nil
	}

	switch n.current.(type) {
	case interval.Pomodoro:
		if !n.awaiting {
			n.awaiting = true
			n.log.Info("pomodoro awaiting evaluation")
			n.ui.IntervalProgress(1)
		}
	case interval.GracePeriod:
		n.streak = 0
		n.log.Info("grace period expired", zap.Duration("break", n.opts.BreakDuration))
		n.replace(interval.Break{Span: interval.Span{Start: now}, Duration: n.opts.BreakDuration}, now)
	case interval.Break:
		n.log.Info("break over")
		n.replace(interval.StartPrompt{Span: interval.Span{Start: now}}, now)
	case interval.StartPrompt:
		// never expires
	}
	return nil
}

// Cancel abandons the current Pomodoro without scoring it. The streak is
// broken and a start prompt opens at now.
func (n *Nexus) Cancel(now time.Time) error {
	pom, ok := n.current.(interval.Pomodoro)
	if !ok {
		return fmt.Errorf("cancel: current interval is %s: %w", n.kind(), ErrInvalidState)
	}
	if err := n.checkTime("cancel", now); err != nil {
		return err
	}
	n.streak = 0
	n.awaiting = false
	n.log.Info("pomodoro cancelled", zap.String("intention", pom.IntentionID))
	n.replace(interval.StartPrompt{Span: interval.Span{Start: now}}, now)
	return nil
}

// replace ends the current interval at now and makes next current.
func (n *Nexus) replace(next interval.Interval, now time.Time) {
	n.history = append(n.history, interval.Ended(n.current, now))
	n.current = next
	n.ui.IntervalEnd()
	n.ui.IntervalStart(next)
}

func (n *Nexus) checkTime(op string, now time.Time) error {
	if n.current == nil {
		return nil
	}
	if start := n.current.Bounds().Start; now.Before(start) {
		return fmt.Errorf("%s: %s precedes %s start %s: %w",
			op, now.Format(time.RFC3339), n.current.Kind(), start.Format(time.RFC3339), interval.ErrInvalidTime)
	}
	return nil
}

func (n *Nexus) kind() string {
	if n.current == nil {
		return "none"
	}
	return string(n.current.Kind())
}

// AddIntention declares a new pending intention.
func (n *Nexus) AddIntention(description string, estimate *int, now time.Time) (intention.Intention, error) {
	return n.intentions.Add(description, estimate, now)
}

// CompleteIntention marks a pending intention completed.
func (n *Nexus) CompleteIntention(id string) (intention.Intention, error) {
	return n.intentions.Complete(id)
}

// AbandonIntention marks a pending intention abandoned.
func (n *Nexus) AbandonIntention(id string) (intention.Intention, error) {
	return n.intentions.Abandon(id)
}

// FindIntention resolves an identifier or unique identifier prefix.
func (n *Nexus) FindIntention(prefix string) (intention.Intention, error) {
	return n.intentions.Find(prefix)
}

// Current returns the current interval. ok is false before first use.
func (n *Nexus) Current() (iv interval.Interval, ok bool) {
	return n.current, n.current != nil
}

// StreakCount returns the number of Pomodoros in the current streak.
func (n *Nexus) StreakCount() int { return n.streak }

// ScoreTotal returns the points earned at or before now.
func (n *Nexus) ScoreTotal(now time.Time) float64 { return n.ledger.Total(now) }

// ScoreEvents returns a copy of the score log.
func (n *Nexus) ScoreEvents() []ledger.ScoreEvent { return n.ledger.Events() }

// AwaitingEvaluation reports whether the current Pomodoro has run out and
// is blocked on Evaluate.
func (n *Nexus) AwaitingEvaluation() bool { return n.awaiting }

// History returns the ended intervals, oldest first.
func (n *Nexus) History() []interval.Interval {
	out := make([]interval.Interval, len(n.history))
	copy(out, n.history)
	return out
}

// Intentions returns every intention in creation order.
func (n *Nexus) Intentions() []intention.Intention { return n.intentions.All() }

// Selectable returns the intentions a Pomodoro may be started for.
func (n *Nexus) Selectable() []intention.Intention { return n.intentions.Selectable() }
