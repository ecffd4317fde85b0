package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/authflow/internal/audit"
	"github.com/nerrad567/authflow/internal/auth"
	"github.com/nerrad567/authflow/internal/infrastructure/config"
	"github.com/nerrad567/authflow/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker reports whether the backing store is reachable. Satisfied
// by database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.ServerConfig
	Logger   *logging.Logger
	Accounts *auth.Service
	Tokens   *auth.TokenService
	Audit    audit.Lister
	Health   HealthChecker
	Version  string
}

// Server is the HTTP API server for AuthFlow.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start(). All methods are safe for
// concurrent use.
type Server struct {
	cfg      config.ServerConfig
	logger   *logging.Logger
	accounts *auth.Service
	tokens   *auth.TokenService
	audit    audit.Lister
	health   HealthChecker
	version  string
	server   *http.Server
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("account service is required")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		accounts: deps.Accounts,
		tokens:   deps.Tokens,
		audit:    deps.Audit,
		health:   deps.Health,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds for
// in-flight requests before forcefully closing connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
