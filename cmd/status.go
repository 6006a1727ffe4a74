package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		s, err := store.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				cmd.Println("no active session")
				return nil
			}
			return err
		}

		cmd.Printf("Session: pid %d, started %s\n", s.PID, s.StartedAt.Format(time.RFC3339))
		if s.Interval != "" {
			line := "Interval: " + string(s.Interval) + " since " + s.IntervalStart.Format(time.Kitchen)
			if s.IntervalDue != nil {
				line += ", due " + s.IntervalDue.Format(time.Kitchen)
			}
			cmd.Println(line)
		}
		if s.Interval == interval.KindPomodoro && s.Intention != "" {
			cmd.Printf("Working on: %s\n", s.Intention)
		}
		if s.Awaiting {
			cmd.Println("Awaiting evaluation: pomodouroboros eval <distracted|interrupted|focused|achieved>")
		}
		cmd.Printf("Streak: %d\n", s.Streak)
		cmd.Printf("Score: %.2f\n", s.Score)
		cmd.Printf("Pending intentions: %d\n", len(s.Pending))
		for _, p := range s.Pending {
			id := p.ID
			if len(id) > 8 {
				id = id[:8]
			}
			if p.Estimate != nil {
				cmd.Printf("  %s  %s (~%d)\n", id, p.Description, *p.Estimate)
			} else {
				cmd.Printf("  %s  %s\n", id, p.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
