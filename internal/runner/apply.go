package runner

import (
	"fmt"
	"time"

	"github.com/moshez/Pomodouroboros/internal/inbox"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/nexus"
)

// Apply executes c against n at now and returns a one-line outcome.
// Intention arguments are identifier prefixes.
func Apply(n *nexus.Nexus, c inbox.Command, now time.Time) (string, error) {
	switch c.Verb {
	case inbox.VerbAdd:
		in, err := n.AddIntention(c.Arg, c.EstimatePtr(), now)
		if err != nil {
			return "", fmt.Errorf("add: %w", err)
		}
		return fmt.Sprintf("added %s %q", in.ShortID(), in.Description), nil

	case inbox.VerbStart:
		in, err := n.FindIntention(c.Arg)
		if err != nil {
			return "", fmt.Errorf("start %q: %w", c.Arg, err)
		}
		res, err := n.StartPomodoro(in.ID, now)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %q (streak %d)", res, in.Description, n.StreakCount()), nil

	case inbox.VerbEval:
		result, err := interval.ParseEvaluation(c.Arg)
		if err != nil {
			return "", err
		}
		if err := n.Evaluate(result, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("evaluated %s (+%.2f, total %.2f)", result, result.Points(), n.ScoreTotal(now)), nil

	case inbox.VerbComplete:
		in, err := n.FindIntention(c.Arg)
		if err != nil {
			return "", fmt.Errorf("complete %q: %w", c.Arg, err)
		}
		if _, err := n.CompleteIntention(in.ID); err != nil {
			return "", err
		}
		return fmt.Sprintf("completed %s %q", in.ShortID(), in.Description), nil

	case inbox.VerbAbandon:
		in, err := n.FindIntention(c.Arg)
		if err != nil {
			return "", fmt.Errorf("abandon %q: %w", c.Arg, err)
		}
		if _, err := n.AbandonIntention(in.ID); err != nil {
			return "", err
		}
		return fmt.Sprintf("abandoned %s %q", in.ShortID(), in.Description), nil

	case inbox.VerbCancel:
		if err := n.Cancel(now); err != nil {
			return "", err
		}
		return "pomodoro cancelled", nil
	}
	return "", fmt.Errorf("unknown command %q: %w", c.Verb, inbox.ErrMalformed)
}
