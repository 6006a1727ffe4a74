package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/moshez/Pomodouroboros/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(GetConfig(), "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))

		if dir, err := config.Dir(); err == nil {
			cmd.PrintErrf("global file: %s/config.json, project file: %s\n", dir, config.ProjectFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
