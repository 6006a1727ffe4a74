package tui

import (
	"fmt"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
)

const feedSize = 6

// Feed is the listener half of the TUI. The Nexus calls it from inside
// Model.Update, so it needs no locking.
type Feed struct {
	current  interval.Interval
	fraction float64
	lines    []string
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed { return &Feed{} }

func (f *Feed) push(format string, args ...any) {
	f.lines = append(f.lines, fmt.Sprintf(format, args...))
	if len(f.lines) > feedSize {
		f.lines = f.lines[len(f.lines)-feedSize:]
	}
}

// Lines returns the most recent events, oldest first.
func (f *Feed) Lines() []string { return f.lines }

func (f *Feed) IntervalStart(iv interval.Interval) {
	f.current = iv
	f.fraction = 0
	f.push("%s  %s started", iv.Bounds().Start.Format("15:04:05"), iv.Kind())
}

func (f *Feed) IntervalProgress(fraction float64) { f.fraction = fraction }

func (f *Feed) IntervalEnd() {
	if f.current != nil {
		f.push("          %s ended", f.current.Kind())
	}
}

func (f *Feed) IntentionAdded(in intention.Intention) {
	f.push("          + %s", in.Description)
}

func (f *Feed) IntentionAbandoned(in intention.Intention) {
	f.push("          ✗ %s", in.Description)
}

func (f *Feed) IntentionCompleted(in intention.Intention) {
	f.push("          ✓ %s", in.Description)
}
