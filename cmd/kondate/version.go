package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/kondate/core/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kondate %s (commit %s", buildinfo.Version, buildinfo.Commit)
		if buildinfo.Date != "" {
			fmt.Printf(", built %s", buildinfo.Date)
		}
		fmt.Println(")")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
