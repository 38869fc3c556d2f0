package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	coreconfig "github.com/m3rciful/kondate/core/config"
	"github.com/m3rciful/kondate/core/logger"
	"github.com/m3rciful/kondate/core/slack"
)

var sendChannel string

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Post the initial meal prompt into a channel",
	Long:  `Builds a fresh conversation with the breakfast prompt and posts it once via chat.postMessage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg *coreconfig.Config
			err error
		)
		if cfgFile != "" || os.Getenv("CONFIG_PATH") != "" {
			path := cfgFile
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			cfg, err = coreconfig.Load(path)
		} else {
			cfg, err = coreconfig.LoadFromEnv()
		}
		if err != nil {
			return err
		}
		if err := logger.InitLogger(cfg); err != nil {
			return err
		}
		defer func() { _ = logger.Shutdown() }()

		channel := sendChannel
		if channel == "" {
			channel = cfg.Slack.DefaultChannel
		}
		if channel == "" {
			return fmt.Errorf("no channel: pass --channel or set slack.default_channel")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := slack.NewClient(cfg.Slack)
		if err := client.PostMessage(ctx, channel, slack.NewConversationMessage()); err != nil {
			return fmt.Errorf("post initial prompt: %w", err)
		}
		fmt.Printf("posted breakfast prompt to %s\n", channel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendChannel, "channel", "c", "", "channel to post into")
}
