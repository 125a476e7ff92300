// Package server runs the HTTP API and releases its resources on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/campusfeedback/internal/bootstrap"
	"github.com/yigit/campusfeedback/internal/config"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server owns the HTTP listener, the dependency graph and the pool.
type Server struct {
	config  *config.Config
	handler http.Handler
	dbPool  *pgxpool.Pool
	deps    *bootstrap.Dependencies
	logger  zerolog.Logger
	http    *http.Server
}

// NewServer loads configuration, migrates, wires dependencies and seeds defaults.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("build dependencies: %w", err)
	}
	bootstrap.SeedDefaults(context.Background(), deps.Repos, lgr)

	return &Server{
		config:  cfg,
		handler: bootstrap.SetupRouter(cfg, deps, lgr),
		dbPool:  dbPool,
		deps:    deps,
		logger:  lgr,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested")
	}

	return errors.Join(runErr, s.Shutdown(context.Background()))
}

// Shutdown drains HTTP connections, then closes Redis and the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP shutdown failed")
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	if s.deps != nil {
		if err := s.deps.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Closing dependencies failed")
			errs = append(errs, fmt.Errorf("dependencies: %w", err))
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}

	s.logger.Info().Msg("Server stopped")
	return errors.Join(errs...)
}
