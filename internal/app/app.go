package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andymarkow/gamevault/internal/auth"
	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/config"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/notifier"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/push"
	"github.com/andymarkow/gamevault/internal/server"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/inmemory"
	"github.com/andymarkow/gamevault/internal/storage/pgstorage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	log    *slog.Logger
	store  storage.Storage
	server *server.Server
	push   *push.Push
}

func New() (*Application, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("config.NewConfig: %w", err)
	}

	logLevel, err := logger.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger.ParseLogLevel: %w", err)
	}

	logFormat, err := logger.ParseLogFormat(cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger.ParseLogFormat: %w", err)
	}

	logg := logger.NewLogger(
		logger.WithLevel(logLevel),
		logger.WithFormat(logFormat),
		logger.WithAddSource(false),
	)

	store, err := newStorage(cfg, logg)
	if err != nil {
		return nil, err
	}

	if err := bootstrapAdmin(context.Background(), store, cfg, logg); err != nil {
		store.Close() //nolint:errcheck

		return nil, err
	}

	notify := notifier.New(store, notifier.WithLogger(logg))
	mutator := wallet.NewMutator(wallet.WithLogger(logg))

	portalSvc := portal.New(store, wallet.New(store, mutator),
		portal.WithLogger(logg),
		portal.WithNotifier(notify),
	)

	backofficeSvc := backoffice.New(store, mutator,
		backoffice.WithLogger(logg),
		backoffice.WithNotifier(notify),
	)

	srv, err := server.NewServer(store, portalSvc, backofficeSvc,
		server.WithServerAddr(cfg.ServerAddr),
		server.WithAuth(auth.NewJWTAuth([]byte(cfg.JWTSecretKey), auth.WithTokenTTL(cfg.JWTTokenTTL))),
		server.WithLogger(logg),
	)
	if err != nil {
		store.Close() //nolint:errcheck

		return nil, fmt.Errorf("server.NewServer: %w", err)
	}

	app := &Application{
		log:    logg,
		store:  store,
		server: srv,
	}

	if cfg.PushGatewayURL != "" {
		app.push = push.NewPush(store,
			push.WithLogger(logg),
			push.WithGatewayURL(cfg.PushGatewayURL),
			push.WithPollInterval(cfg.PushPollInterval),
		)
	}

	return app, nil
}

func newStorage(cfg config.Config, logg *slog.Logger) (storage.Storage, error) {
	if cfg.DatabaseURI == "" {
		logg.Info("Using in-memory storage")

		return inmemory.NewStorage(), nil
	}

	pgstore, err := pgstorage.NewStorage(cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("pgstorage.NewStorage: %w", err)
	}

	if err := pgstore.Bootstrap(context.Background()); err != nil {
		pgstore.Close() //nolint:errcheck

		return nil, fmt.Errorf("pgstore.Bootstrap: %w", err)
	}

	return pgstore, nil
}

// bootstrapAdmin creates the configured administrator account once.
func bootstrapAdmin(ctx context.Context, store storage.Storage, cfg config.Config, logg *slog.Logger) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	admin, err := users.CreateUser(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, users.RoleAdmin)
	if err != nil {
		return fmt.Errorf("users.CreateUser: %w", err)
	}

	if err := store.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			logg.Info("Admin user already exists", slog.String("username", cfg.AdminUsername))

			return nil
		}

		return fmt.Errorf("store.CreateUser: %w", err)
	}

	logg.Info("Admin user created", slog.String("username", admin.Username()))

	return nil
}

func (a *Application) Run() error {
	defer a.store.Close()

	errChan := make(chan error, 1)

	go func() {
		if err := a.server.Start(); err != nil {
			errChan <- fmt.Errorf("server.Start: %w", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.push != nil {
		go func() {
			if err := a.push.Run(ctx); err != nil {
				errChan <- fmt.Errorf("push.Run: %w", err)
			}
		}()
	}

	// Graceful shutdown handler
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err

	case <-quit:
		a.log.Info("Gracefully shutting down application...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		return a.server.Shutdown(shutdownCtx) //nolint:wrapcheck
	}
}
