// Package streak decides whether a newly started Pomodoro extends the
// current run of back-to-back Pomodoros or begins a new one.
package streak

import (
	"time"

	"github.com/moshez/Pomodouroboros/internal/interval"
)

// Outcome is the classification of a Pomodoro start.
type Outcome string

const (
	// Started resets the streak to one.
	Started Outcome = "Started"
	// Continued extends the streak by one.
	Continued Outcome = "Continued"
)

// Classify looks at the interval preceding a Pomodoro that starts at now.
// history is ordered oldest first and its last element is the interval the
// new Pomodoro replaces. StartPrompts are skipped over.
//
// Only a GracePeriod whose window still contains now continues a streak.
func Classify(history []interval.Interval, now time.Time) Outcome {
	prev, ok := previous(history)
	if !ok {
		return Started
	}
	if g, isGrace := prev.(interval.GracePeriod); isGrace && !interval.IsExpired(g, now) {
		return Continued
	}
	return Started
}

// previous returns the most recent interval that is not a StartPrompt.
func previous(history []interval.Interval) (interval.Interval, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Kind() == interval.KindStartPrompt {
			continue
		}
		return history[i], true
	}
	return nil, false
}

// Next returns the streak count after a start classified as o.
func Next(count int, o Outcome) int {
	if o == Continued {
		return count + 1
	}
	return 1
}
