package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kondate",
	Short: "Interactive meal-planning bot for Slack",
	Long: `kondate drives a three-step meal-planning dialog inside Slack.
The service is stateless: the whole conversation state travels inside
the message attachments, which the client echoes back on every click.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the YAML config file (falls back to $CONFIG_PATH)")
}
