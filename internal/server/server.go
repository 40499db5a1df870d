package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/andymarkow/gamevault/internal/auth"
	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/server/router"
	"github.com/andymarkow/gamevault/internal/storage"
)

type Server struct {
	srv *http.Server
	log *slog.Logger
}

type Config struct {
	logger     *slog.Logger
	serverAddr string
	auth       *auth.JWTAuth
}

type Option func(c *Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func WithServerAddr(addr string) Option {
	return func(c *Config) {
		c.serverAddr = addr
	}
}

func WithAuth(a *auth.JWTAuth) Option {
	return func(c *Config) {
		c.auth = a
	}
}

func NewServer(
	store storage.Storage, portalSvc *portal.Service, backofficeSvc *backoffice.Service, opts ...Option,
) (*Server, error) {
	cfg := &Config{
		logger:     logger.NewNop(),
		serverAddr: "0.0.0.0:8080",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.auth == nil {
		return nil, errors.New("server auth is not configured")
	}

	r := router.NewRouter(store, portalSvc, backofficeSvc,
		router.WithLogger(cfg.logger),
		router.WithAuth(cfg.auth),
	)

	srv := &http.Server{
		Addr:              cfg.serverAddr,
		Handler:           r,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return &Server{
		srv: srv,
		log: cfg.logger.With(slog.String("module", "server")),
	}, nil
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info(fmt.Sprintf("Starting server on %s", s.srv.Addr))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Gracefully shutting down server...")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	return nil
}
