package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server hosts the validation API over HTTP: registered domain handlers plus
// the system endpoints (default route, health, readiness, metrics).
type Server struct {
	name     string
	version  string
	cfg      *Config
	handlers map[string]http.HandlerFunc
	limiter  *rate.Limiter

	mu    sync.RWMutex
	ready bool
}

// ServerOption is a functional option for configuring Server instances.
type ServerOption func(*Server)

// WithName returns an option setting the service name reported on the
// default route.
func WithName(name string) ServerOption {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion returns an option setting the reported service version.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithConfig returns an option replacing the default configuration.
func WithConfig(cfg *Config) ServerOption {
	return func(s *Server) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithHandler returns an option registering API routes. Registered handlers
// run behind the standard middleware chain.
func WithHandler(routes map[string]http.HandlerFunc) ServerOption {
	return func(s *Server) {
		for path, h := range routes {
			s.handlers[path] = h
		}
	}
}

// New creates a Server with the provided options.
func New(opts ...ServerOption) *Server {
	s := &Server{
		name:     "feedcheck",
		version:  "dev",
		cfg:      DefaultConfig(),
		handlers: make(map[string]http.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = rate.NewLimiter(s.cfg.RateLimit, s.cfg.RateLimitBurst)
	return s
}

// Run starts the HTTP server and blocks until ctx is canceled or the
// listener fails. Shutdown is graceful within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()

	// Best effort: only meaningful when running under systemd with
	// Type=notify.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		slog.Debug("sd_notify ready failed", "error", err)
	}

	slog.Info("http server listening", "addr", addr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		s.mu.Lock()
		s.ready = false
		s.mu.Unlock()

		if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
			slog.Debug("sd_notify stopping failed", "error", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		slog.Info("shutting down http server")
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
