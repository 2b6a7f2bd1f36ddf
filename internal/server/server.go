// Package server exposes a task.Service over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/josephgoksu/TaskNest/internal/task"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr string
	// Origins lists the browser origins allowed by CORS.
	Origins []string
	// ExportTitle heads exported documents.
	ExportTitle string
	Logger      *slog.Logger
}

type Server struct {
	svc         *task.Service
	logger      *slog.Logger
	origins     map[string]struct{}
	exportTitle string
	server      *http.Server
}

// New builds a Server for svc. It does not start listening.
func New(svc *task.Service, opts Options) *Server {
	s := &Server{
		svc:         svc,
		logger:      opts.Logger,
		origins:     make(map[string]struct{}, len(opts.Origins)),
		exportTitle: opts.ExportTitle,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.exportTitle == "" {
		s.exportTitle = "Tasks"
	}
	for _, o := range opts.Origins {
		s.origins[o] = struct{}{}
	}

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("API server listening", "addr", s.server.Addr, "data", s.svc.Path())
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	s.Start(&wg, errChan)

	var runErr error
	select {
	case runErr = <-errChan:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("API server stopped")
	}
	wg.Wait()
	return runErr
}
