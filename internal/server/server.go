// Package server exposes an Agent and the local dashboard over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/agenthub-cli/internal/agent"
	"github.com/KaramelBytes/agenthub-cli/internal/classify"
	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8000"

// maxUpload caps request bodies.
const maxUpload = 32 << 20

// Config holds configuration for the server.
type Config struct {
	Addr string
	// Agent answers POST /agent.
	Agent agent.Agent
	// AgentName is reported by the health endpoints.
	AgentName string
	// Classifier, TopN and Bins drive POST /dashboard.
	Classifier classify.ColumnClassifier
	TopN       int
	Bins       int
	Load       dataset.LoadOptions
	Logger     *slog.Logger
}

// Server serves the agent HTTP API.
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a server. A nil logger discards output.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Load.MaxRows == 0 && cfg.Load.SheetIndex == 0 {
		cfg.Load = dataset.DefaultLoadOptions()
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.logRequests,
		middleware.Recoverer,
	)
	r.Get("/", s.health)
	r.Get("/health", s.health)
	r.Post("/agent", s.handleAgent)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/dashboard", s.handleDashboard)
	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled
// or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is like Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting agent server", "addr", ln.Addr().String(), "agent", s.cfg.AgentName)

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down agent server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
