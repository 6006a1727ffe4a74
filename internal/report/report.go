// Package report summarises a finished session and renders the summary as
// Markdown or JSON.
package report

import (
	"time"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/ledger"
	"github.com/moshez/Pomodouroboros/internal/nexus"
)

// Summary is the complete, renderable account of one session.
type Summary struct {
	Started    time.Time             `json:"started"`
	Ended      time.Time             `json:"ended"`
	Duration   string                `json:"duration"` // human-readable, e.g. "1h50m0s"
	Streak     int                   `json:"streak"`
	Score      float64               `json:"score"`
	Pomodoros  []Pomodoro            `json:"pomodoros"`
	Intentions []intention.Intention `json:"intentions"`
	Events     []ledger.ScoreEvent   `json:"score_events"`
}

// Pomodoro is one ended Pomodoro as it appears in the summary.
type Pomodoro struct {
	Start      time.Time                  `json:"start"`
	End        time.Time                  `json:"end"`
	Intention  string                     `json:"intention"`
	Evaluation *interval.EvaluationResult `json:"evaluation,omitempty"` // nil when cancelled
}

// Build collects the session held by n. Pomodoros come from the ended
// history only; one still running at now is left out.
func Build(n *nexus.Nexus, started, now time.Time) *Summary {
	names := make(map[string]string)
	intentions := n.Intentions()
	for _, in := range intentions {
		names[in.ID] = in.Description
	}

	s := &Summary{
		Started:    started,
		Ended:      now,
		Duration:   now.Sub(started).Round(time.Second).String(),
		Streak:     n.StreakCount(),
		Score:      n.ScoreTotal(now),
		Pomodoros:  []Pomodoro{},
		Intentions: intentions,
		Events:     n.ScoreEvents(),
	}
	for _, iv := range n.History() {
		p, ok := iv.(interval.Pomodoro)
		if !ok || p.End == nil {
			continue
		}
		s.Pomodoros = append(s.Pomodoros, Pomodoro{
			Start:      p.Start,
			End:        *p.End,
			Intention:  names[p.IntentionID],
			Evaluation: p.Evaluation,
		})
	}
	return s
}
