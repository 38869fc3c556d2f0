package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m3rciful/kondate/core/bootstrap"
	coreconfig "github.com/m3rciful/kondate/core/config"
	"github.com/m3rciful/kondate/core/logger"
	"github.com/m3rciful/kondate/core/server"

	"log/slog"
)

// Options describe how to load configuration, bootstrap the app, and run the server.
type Options struct {
	// ConfigPath wins over the environment variable when set.
	ConfigPath        string
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (*coreconfig.Config, error)
	Bootstrap  func(cfg *coreconfig.Config) (*bootstrap.Result, error)

	ShutdownLogger func() error
	RunServer      func(ctx context.Context, opts server.RunOptions) error
}

// Run loads configuration, bootstraps the service, and serves the
// webhook endpoints until an interrupt arrives.
func Run(opts Options) error {
	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv(env)
	}
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}

	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = coreconfig.Load
	}

	var (
		cfg *coreconfig.Config
		err error
	)
	if cfgPath == "" {
		log.Printf("no config file, reading environment only")
		cfg, err = coreconfig.LoadFromEnv()
	} else {
		log.Printf("loading config: %s", cfgPath)
		cfg, err = loadConfig(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	boot := opts.Bootstrap
	if boot == nil {
		boot = func(cfg *coreconfig.Config) (*bootstrap.Result, error) {
			return bootstrap.Run(bootstrap.Options{Config: cfg})
		}
	}
	res, err := boot(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	srv := server.New(cfg, res.Catalog, res.Client, res.Dispatcher)

	startedAt := time.Now()
	runOpts := server.RunOptions{
		Config:  cfg,
		Handler: srv.Handler(),
		OnStart: func(ctx context.Context) error {
			logger.Info(ctx, "app", "ready",
				slog.Duration("startup_duration", time.Since(startedAt)),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info(ctx, "app", "shutdown")
			res.Dispatcher.Close()
			return nil
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	run := opts.RunServer
	if run == nil {
		run = server.Run
	}
	return run(ctx, runOpts)
}
