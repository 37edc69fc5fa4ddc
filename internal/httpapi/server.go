// Package httpapi serves the workbench as JSON over HTTP for scripts and editors
// that want to drive squeal without the terminal UI.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/workbench"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end of a workbench.
type Server struct {
	wb      *workbench.Workbench
	history History
	addr    string
}

// Config holds configuration for the server.
type Config struct {
	Workbench *workbench.Workbench
	// History is optional; without it runs are not recorded and /api/history is 404.
	History History
	Host    string
	Port    int
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return &Server{
		wb:      cfg.Workbench,
		history: cfg.History,
		addr:    net.JoinHostPort(host, fmt.Sprint(cfg.Port)),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	SetupRoutes(r, NewHandlers(s.wb, s.history))
	return r
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	logger.Info("Starting HTTP API", "addr", "http://"+s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Debug("Shutting down HTTP API")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
