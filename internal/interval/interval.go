// Package interval models the four kinds of time interval a day is divided
// into and the pure computations over them. Values are immutable snapshots;
// nothing in this package decides which interval comes next.
package interval

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned when a supplied timestamp precedes the start of
// the interval it is measured against.
var ErrInvalidTime = errors.New("time precedes interval start")

// Kind tags the shape of an Interval.
type Kind string

const (
	KindStartPrompt Kind = "StartPrompt"
	KindPomodoro    Kind = "Pomodoro"
	KindGracePeriod Kind = "GracePeriod"
	KindBreak       Kind = "Break"
)

// Interval is one of StartPrompt, Pomodoro, GracePeriod or Break.
// The set is closed: only this package can add implementations.
type Interval interface {
	Kind() Kind
	Bounds() Span
	isInterval()
}

// Span holds the bounds shared by every interval kind.
type Span struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"` // nil while the interval is current
}

// Active reports whether the interval has not been ended yet.
func (s Span) Active() bool { return s.End == nil }

// StartPrompt waits, without a deadline, for the user to begin work.
type StartPrompt struct {
	Span
}

// Pomodoro is a timed focus session bound to exactly one intention.
type Pomodoro struct {
	Span
	IntentionID string            `json:"intention_id"`
	Evaluation  *EvaluationResult `json:"evaluation,omitempty"` // nil until graded
	Duration    time.Duration     `json:"duration"`
}

// GracePeriod follows a graded Pomodoro; starting another Pomodoro before it
// runs out continues the streak.
type GracePeriod struct {
	Span
	Follows  Pomodoro      `json:"follows"`
	Duration time.Duration `json:"duration"`
}

// Break is rest time. No intention is attached.
type Break struct {
	Span
	Duration time.Duration `json:"duration"`
}

func (StartPrompt) Kind() Kind { return KindStartPrompt }
func (Pomodoro) Kind() Kind    { return KindPomodoro }
func (GracePeriod) Kind() Kind { return KindGracePeriod }
func (Break) Kind() Kind       { return KindBreak }

func (i StartPrompt) Bounds() Span { return i.Span }
func (i Pomodoro) Bounds() Span    { return i.Span }
func (i GracePeriod) Bounds() Span { return i.Span }
func (i Break) Bounds() Span       { return i.Span }

func (StartPrompt) isInterval() {}
func (Pomodoro) isInterval()    {}
func (GracePeriod) isInterval() {}
func (Break) isInterval()       {}

// WithEvaluation returns a copy of p carrying result.
func (p Pomodoro) WithEvaluation(result EvaluationResult) Pomodoro {
	p.Evaluation = &result
	return p
}

// Target returns the fixed duration of iv, if its kind has one.
// StartPrompt waits indefinitely and reports false.
func Target(iv Interval) (time.Duration, bool) {
	switch v := iv.(type) {
	case Pomodoro:
		return v.Duration, true
	case GracePeriod:
		return v.Duration, true
	case Break:
		return v.Duration, true
	case StartPrompt:
		return 0, false
	default:
		panic(fmt.Sprintf("interval: unknown interval type %T", iv))
	}
}

// IsExpired reports whether iv has a target duration and now is at or past
// start + duration.
func IsExpired(iv Interval, now time.Time) bool {
	d, ok := Target(iv)
	if !ok {
		return false
	}
	return !now.Before(iv.Bounds().Start.Add(d))
}

// ElapsedFraction returns how far through iv the instant now is, clamped to
// [0, 1]. Ended intervals are measured against their end; current ones
// against their target. A current StartPrompt has neither and reports 0.
func ElapsedFraction(iv Interval, now time.Time) (float64, error) {
	span := iv.Bounds()
	if now.Before(span.Start) {
		return 0, fmt.Errorf("%s starting %s measured at %s: %w",
			iv.Kind(), span.Start.Format(time.RFC3339), now.Format(time.RFC3339), ErrInvalidTime)
	}

	var total time.Duration
	if span.End != nil {
		total = span.End.Sub(span.Start)
	} else {
		d, ok := Target(iv)
		if !ok {
			return 0, nil
		}
		total = d
	}
	if total <= 0 {
		return 1, nil
	}
	return min(float64(now.Sub(span.Start))/float64(total), 1), nil
}

// Ended returns a copy of iv whose end is set to at.
func Ended(iv Interval, at time.Time) Interval {
	end := at
	switch v := iv.(type) {
	case StartPrompt:
		v.End = &end
		return v
	case Pomodoro:
		v.End = &end
		return v
	case GracePeriod:
		v.End = &end
		return v
	case Break:
		v.End = &end
		return v
	default:
		panic(fmt.Sprintf("interval: unknown interval type %T", iv))
	}
}
