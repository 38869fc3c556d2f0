package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	coreconfig "github.com/m3rciful/kondate/core/config"
	"github.com/m3rciful/kondate/core/logger"
	"log/slog"
)

const defaultShutdownTimeout = 5 * time.Second

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Config  *coreconfig.Config
	Handler http.Handler

	OnStart func(ctx context.Context) error
	OnStop  func(ctx context.Context) error
}

// Run serves the handler until the provided context is done, then
// shuts down gracefully within the configured deadline.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("server: nil config provided")
	}
	if opts.Handler == nil {
		return fmt.Errorf("server: nil handler provided")
	}

	cfg := opts.Config
	addr := net.JoinHostPort(cfg.Server.Listen, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           opts.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx); err != nil {
			return err
		}
	}

	logger.Info(ctx, "http", "listen",
		slog.String("mode", "webhook"),
		slog.String("listen", addr),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server: listen failed: %w", err)
		}
	case <-ctx.Done():
		timeout := defaultShutdownTimeout
		if cfg.Server.ShutdownTimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ctx, "http", "shutdown.forced", slog.String("err", err.Error()))
			_ = srv.Close()
		}
		<-serverErrors
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.Background())
	}

	if stopErr != nil {
		return stopErr
	}
	return runErr
}
