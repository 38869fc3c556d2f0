package bootstrap

import (
	"fmt"
	"time"

	coreconfig "github.com/m3rciful/kondate/core/config"
	"github.com/m3rciful/kondate/core/kondate"
	"github.com/m3rciful/kondate/core/logger"
	"github.com/m3rciful/kondate/core/sender"
	"github.com/m3rciful/kondate/core/slack"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	NewClient  func(coreconfig.SlackConfig) *slack.Client
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Client     *slack.Client
	Catalog    *kondate.Catalog
	Dispatcher *sender.Dispatcher
}

// Run initializes the logger, the outbound Slack client, the menu
// catalog, and the asynchronous dispatcher.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	newClient := opts.NewClient
	if newClient == nil {
		newClient = slack.NewClient
	}

	catalog := kondate.NewCatalog(cfg.Menu.Breakfast, cfg.Menu.Lunch, cfg.Menu.Dinner)

	dispatcher := sender.NewDispatcher(sender.Options{
		QueueSize:    cfg.Sender.QueueSize,
		Workers:      cfg.Sender.Workers,
		MaxRetries:   cfg.Sender.MaxRetries,
		RetryBackoff: 2 * time.Second,
	})

	return &Result{
		Client:     newClient(cfg.Slack),
		Catalog:    catalog,
		Dispatcher: dispatcher,
	}, nil
}
