package server

import (
	"net/http"
	"runtime/debug"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/m3rciful/kondate/core/logger"
	"log/slog"
)

// RecoverMiddleware catches panics in handlers and keeps the process alive.
// The failing request is answered with a plain 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(r.Context(), "http", "http.panic",
					slog.String("path", r.URL.Path),
					slog.Any("err", rec),
					slog.String("stack", string(debug.Stack())),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// LoggerMiddleware assigns a request id, stores request metadata in
// context, and logs a single summary line per request.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := logger.NewRID()
		ctx := logger.WithRID(r.Context(), rid)
		ctx = logger.WithLogger(ctx, logger.Component("http"))

		if logger.ShouldSampleDebug() {
			logger.Debug(ctx, "http", "request.received",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := "ok"
		if ww.Status() >= http.StatusBadRequest {
			status = "fail"
		}
		logger.Info(ctx, "http", "request.handled",
			slog.String("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_code", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
