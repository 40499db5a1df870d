// Package portal implements the operations a regular user performs: account
// access, wallet requests, store orders, tournament entry and support chat.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/notifier"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	log      *slog.Logger
	store    storage.Storage
	wallet   *wallet.Wallet
	notifier notifier.Notifier
	now      func() time.Time
}

type Config struct {
	logger   *slog.Logger
	notifier notifier.Notifier
	now      func() time.Time
}

type Option func(c *Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func WithNotifier(n notifier.Notifier) Option {
	return func(c *Config) {
		c.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}

func New(store storage.Storage, w *wallet.Wallet, opts ...Option) *Service {
	cfg := &Config{
		logger: logger.NewNop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.notifier == nil {
		cfg.notifier = notifier.New(store, notifier.WithLogger(cfg.logger))
	}

	return &Service{
		log:      cfg.logger.With(slog.String("module", "portal")),
		store:    store,
		wallet:   w,
		notifier: cfg.notifier,
		now:      cfg.now,
	}
}

// Register creates a regular user account with an empty wallet.
func (s *Service) Register(ctx context.Context, username, email, password string) (*users.User, error) {
	usr, err := users.CreateUser(username, email, password, users.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("users.CreateUser: %w", err)
	}

	if err := s.store.CreateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("store.CreateUser: %w", err)
	}

	s.notifier.Notify(ctx, usr.ID(), notifications.CategorySystem, "Welcome!",
		fmt.Sprintf("Welcome to the platform, %s!", usr.Username()), "")

	s.log.Info("User registered", slog.Int64("user_id", usr.ID()), slog.String("username", usr.Username()))

	return usr, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*users.User, error) {
	usr, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("store.GetUserByUsername: %w", err)
	}

	if err := usr.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return usr, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*users.User, error) {
	usr, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.GetUser: %w", err)
	}

	return usr, nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.wallet.Balance(ctx, userID) //nolint:wrapcheck
}

func (s *Service) History(ctx context.Context, userID int64) ([]*ledger.Entry, error) {
	return s.wallet.History(ctx, userID) //nolint:wrapcheck
}

func (s *Service) Notifications(ctx context.Context, userID int64) ([]*notifications.Notification, error) {
	list, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.ListNotifications: %w", err)
	}

	return list, nil
}
