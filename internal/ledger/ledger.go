// Package ledger turns graded Pomodoros into point-bearing score events and
// keeps an append-only log of them.
package ledger

import (
	"time"

	"github.com/moshez/Pomodouroboros/internal/interval"
)

// ScoreEvent is a point award at a moment in time.
type ScoreEvent struct {
	Points float64                   `json:"points"`
	Time   time.Time                 `json:"time"`
	Result interval.EvaluationResult `json:"result"`
}

// Ledger is an append-only log of score events kept in insertion order.
// Events are not re-sorted when the clock moves backwards.
type Ledger struct {
	events []ScoreEvent
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Record appends the event for result at t and returns it.
func (l *Ledger) Record(result interval.EvaluationResult, t time.Time) ScoreEvent {
	ev := ScoreEvent{Points: result.Points(), Time: t, Result: result}
	l.events = append(l.events, ev)
	return ev
}

// Total sums the points of every event at or before asOf.
func (l *Ledger) Total(asOf time.Time) float64 {
	var sum float64
	for _, ev := range l.events {
		if !ev.Time.After(asOf) {
			sum += ev.Points
		}
	}
	return sum
}

// Events returns a copy of the log.
func (l *Ledger) Events() []ScoreEvent {
	out := make([]ScoreEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len reports the number of recorded events.
func (l *Ledger) Len() int { return len(l.events) }
