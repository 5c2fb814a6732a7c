// Package debugserver exposes a local ops listener with health and metrics
// endpoints while the console runs.
package debugserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/pkg/logger"
)

// Server is the optional localhost debug listener.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// New builds the listener. The health endpoint probes the backend through
// the console's own client.
func New(addr string, client *api.Client, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		health, err := client.Health(ctx)
		status := map[string]any{"console": "ok", "backend": "unreachable"}
		code := http.StatusServiceUnavailable
		if err == nil && health.OK {
			status["backend"] = "ok"
			status["build"] = health.Build
			code = http.StatusOK
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	})

	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start serves until Shutdown. Errors other than a clean close are logged.
func (s *Server) Start() {
	go func() {
		s.logger.Info("debug listener started", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("debug listener failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) {
	_ = s.httpServer.Shutdown(ctx)
}
