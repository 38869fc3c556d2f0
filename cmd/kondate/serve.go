package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/kondate/core/cmd"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Starts the stateless webhook server exposing the action, options, and command endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := corecmd.Run(corecmd.Options{
			ConfigPath: cfgFile,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
