// Package session publishes a snapshot of the running session so other
// invocations can report on it and refuse to start a second one.
package session

import (
	"time"

	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/nexus"
)

// Status is the snapshot written while `run` is active.
type Status struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Interval      interval.Kind `json:"interval,omitempty"`
	IntervalStart time.Time     `json:"interval_start"`
	// IntervalDue is when the current interval expires; nil for a start prompt.
	IntervalDue *time.Time `json:"interval_due,omitempty"`
	Intention   string     `json:"intention,omitempty"` // description, while a pomodoro runs
	Awaiting    bool       `json:"awaiting_evaluation,omitempty"`

	Streak  int       `json:"streak"`
	Score   float64   `json:"score"`
	Pending []Pending `json:"pending"`
}

// Pending is a selectable intention as shown by `status`.
type Pending struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Estimate    *int   `json:"estimate,omitempty"`
}

// Snapshot captures n as of now.
func Snapshot(n *nexus.Nexus, now time.Time) Status {
	s := Status{
		UpdatedAt: now,
		Awaiting:  n.AwaitingEvaluation(),
		Streak:    n.StreakCount(),
		Score:     n.ScoreTotal(now),
		Pending:   []Pending{},
	}
	if cur, ok := n.Current(); ok {
		s.Interval = cur.Kind()
		s.IntervalStart = cur.Bounds().Start
		if d, ok := interval.Target(cur); ok {
			due := s.IntervalStart.Add(d)
			s.IntervalDue = &due
		}
		if p, ok := cur.(interval.Pomodoro); ok {
			if in, err := n.FindIntention(p.IntentionID); err == nil {
				s.Intention = in.Description
			}
		}
	}
	for _, in := range n.Selectable() {
		s.Pending = append(s.Pending, Pending{ID: in.ID, Description: in.Description, Estimate: in.Estimate})
	}
	return s
}
