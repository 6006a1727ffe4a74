package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moshez/Pomodouroboros/internal/config"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var logLevelFlag string

var rootCmd = &cobra.Command{
	Use:   "pomodouroboros",
	Short: "Pomodoro timer with intentions, streaks and a running score",
	Long: `pomodouroboros tracks focused work sessions (pomodoros) attached to
intentions you declare, grades each one when it ends and keeps a running
score. "run" hosts the session; the other commands queue requests for it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		merged, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevelFlag != "" {
			merged.LogLevel = logLevelFlag
		}
		if err := merged.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = merged
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override log_level (debug, info, warn, error)")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
