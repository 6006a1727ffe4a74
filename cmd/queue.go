package cmd

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moshez/Pomodouroboros/internal/inbox"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/session"
)

// queue appends a command to the inbox read by `run`.
func queue(cmd *cobra.Command, c inbox.Command) error {
	path, err := inbox.Path()
	if err != nil {
		return err
	}
	c.Time = time.Now()
	if err := inbox.Append(path, c); err != nil {
		return err
	}
	cmd.Printf("queued %s", c.Verb)
	if c.Arg != "" {
		cmd.Printf(" %q", c.Arg)
	}
	cmd.Println()
	warnIfNotRunning(cmd)
	return nil
}

func warnIfNotRunning(cmd *cobra.Command) {
	store, err := session.NewStore()
	if err != nil {
		return
	}
	if _, err := store.Load(); errors.Is(err, session.ErrNoSession) {
		cmd.PrintErrln("note: no session is running; start one with `pomodouroboros run`")
	}
}

var estimateFlag int

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Declare a new intention",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc := strings.TrimSpace(strings.Join(args, " "))
		if desc == "" {
			return errors.New("description must not be empty")
		}
		if estimateFlag < 0 {
			return errors.New("--estimate must not be negative")
		}
		return queue(cmd, inbox.Command{Verb: inbox.VerbAdd, Arg: desc, Estimate: estimateFlag})
	},
}

var startCmd = &cobra.Command{
	Use:   "start <intention-id-prefix>",
	Short: "Start a pomodoro for a pending intention",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return queue(cmd, inbox.Command{Verb: inbox.VerbStart, Arg: args[0]})
	},
}

var evalCmd = &cobra.Command{
	Use:       "eval <distracted|interrupted|focused|achieved>",
	Short:     "Grade the pomodoro that just finished",
	Args:      cobra.ExactArgs(1),
	ValidArgs: evaluationNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := interval.ParseEvaluation(args[0])
		if err != nil {
			return err
		}
		return queue(cmd, inbox.Command{Verb: inbox.VerbEval, Arg: string(r)})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <intention-id-prefix>",
	Short: "Mark an intention as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return queue(cmd, inbox.Command{Verb: inbox.VerbComplete, Arg: args[0]})
	},
}

var abandonCmd = &cobra.Command{
	Use:   "abandon <intention-id-prefix>",
	Short: "Give up on an intention",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return queue(cmd, inbox.Command{Verb: inbox.VerbAbandon, Arg: args[0]})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Stop the running pomodoro without scoring it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return queue(cmd, inbox.Command{Verb: inbox.VerbCancel})
	},
}

func evaluationNames() []string {
	names := make([]string, len(interval.Evaluations))
	for i, r := range interval.Evaluations {
		names[i] = string(r)
	}
	return names
}

func init() {
	addCmd.Flags().IntVarP(&estimateFlag, "estimate", "e", 0, "expected number of pomodoros")
	rootCmd.AddCommand(addCmd, startCmd, evalCmd, completeCmd, abandonCmd, cancelCmd)
}
