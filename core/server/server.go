package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreconfig "github.com/m3rciful/kondate/core/config"
	"github.com/m3rciful/kondate/core/kondate"
	"github.com/m3rciful/kondate/core/sender"
)

// Server wires the webhook handlers with their collaborators.
type Server struct {
	cfg        *coreconfig.Config
	catalog    *kondate.Catalog
	poster     Poster
	dispatcher *sender.Dispatcher
	metrics    *Metrics
}

// New builds a Server. The dispatcher may be nil, in which case
// outbound posts run synchronously.
func New(cfg *coreconfig.Config, catalog *kondate.Catalog, poster Poster, dispatcher *sender.Dispatcher) *Server {
	if catalog == nil {
		catalog = kondate.DefaultCatalog()
	}
	return &Server{
		cfg:        cfg,
		catalog:    catalog,
		poster:     poster,
		dispatcher: dispatcher,
		metrics:    NewMetrics(),
	}
}

// Handler assembles the HTTP routes and middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RecoverMiddleware)
	r.Use(LoggerMiddleware)
	r.Use(s.metrics.Middleware)

	r.Post("/action", s.handleAction)
	r.Post("/options", s.handleOptions)
	r.Post("/command", s.handleCommand)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}
