package nexus

import (
	"go.uber.org/zap"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
)

// IntervalListener is told about the current interval. For every interval
// it sees IntervalStart, then zero or more IntervalProgress calls, then
// IntervalEnd when the interval is replaced.
type IntervalListener interface {
	IntervalStart(iv interval.Interval)
	// IntervalProgress reports the fraction of the current interval elapsed, in [0, 1].
	IntervalProgress(fraction float64)
	IntervalEnd()
}

// UIEventListener is everything a front end is notified about.
type UIEventListener interface {
	intention.Listener
	IntervalListener
}

// UserInterfaceFactory builds the front end for a Nexus. The listener it
// returns may keep n to issue commands later.
type UserInterfaceFactory func(n *Nexus) UIEventListener

// NoUserInterface ignores every notification. It is the default front end.
type NoUserInterface struct{}

func (NoUserInterface) IntentionAdded(intention.Intention)     {}
func (NoUserInterface) IntentionAbandoned(intention.Intention) {}
func (NoUserInterface) IntentionCompleted(intention.Intention) {}
func (NoUserInterface) IntervalStart(interval.Interval)        {}
func (NoUserInterface) IntervalProgress(float64)               {}
func (NoUserInterface) IntervalEnd()                           {}

// Multi forwards each notification to every listener, in order.
type Multi []UIEventListener

func (m Multi) IntentionAdded(in intention.Intention) {
	for _, l := range m {
		l.IntentionAdded(in)
	}
}

func (m Multi) IntentionAbandoned(in intention.Intention) {
	for _, l := range m {
		l.IntentionAbandoned(in)
	}
}

func (m Multi) IntentionCompleted(in intention.Intention) {
	for _, l := range m {
		l.IntentionCompleted(in)
	}
}

func (m Multi) IntervalStart(iv interval.Interval) {
	for _, l := range m {
		l.IntervalStart(iv)
	}
}

func (m Multi) IntervalProgress(fraction float64) {
	for _, l := range m {
		l.IntervalProgress(fraction)
	}
}

func (m Multi) IntervalEnd() {
	for _, l := range m {
		l.IntervalEnd()
	}
}

// guarded shields the Nexus from listener panics. Notifications are only
// sent once state is committed, so a recovered panic loses the notification
// and nothing else.
type guarded struct {
	ui  UIEventListener
	log *zap.Logger
}

func (g guarded) call(event string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("listener panicked", zap.String("event", event), zap.Any("panic", r))
		}
	}()
	f()
}

func (g guarded) IntentionAdded(in intention.Intention) {
	g.call("intention added", func() { g.ui.IntentionAdded(in) })
}

func (g guarded) IntentionAbandoned(in intention.Intention) {
	g.call("intention abandoned", func() { g.ui.IntentionAbandoned(in) })
}

func (g guarded) IntentionCompleted(in intention.Intention) {
	g.call("intention completed", func() { g.ui.IntentionCompleted(in) })
}

func (g guarded) IntervalStart(iv interval.Interval) {
	g.call("interval start", func() { g.ui.IntervalStart(iv) })
}

func (g guarded) IntervalProgress(fraction float64) {
	g.call("interval progress", func() { g.ui.IntervalProgress(fraction) })
}

func (g guarded) IntervalEnd() {
	g.call("interval end", func() { g.ui.IntervalEnd() })
}
