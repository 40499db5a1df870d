// Package notifier records user-facing notifications. Delivery is best effort:
// a failed notification never fails the operation that triggered it.
package notifier

import (
	"context"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/storage"
)

// Notifier is implemented by anything that can tell a user about an event.
type Notifier interface {
	Notify(ctx context.Context, userID int64, category notifications.Category, title, message, link string)
}

type Store struct {
	log     *slog.Logger
	storage storage.NotificationStorage
}

type Config struct {
	logger *slog.Logger
}

type Option func(c *Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// New returns a Notifier that persists notifications through store.
func New(store storage.NotificationStorage, opts ...Option) *Store {
	cfg := &Config{
		logger: logger.NewNop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Store{
		log:     cfg.logger.With(slog.String("module", "notifier")),
		storage: store,
	}
}

func (s *Store) Notify(
	ctx context.Context, userID int64, category notifications.Category, title, message, link string,
) {
	n, err := notifications.NewNotification(userID, category, title, message, link)
	if err != nil {
		s.log.Error("notifications.NewNotification", slog.Int64("user_id", userID), slog.Any("error", err))

		return
	}

	if err := s.storage.CreateNotification(ctx, n); err != nil {
		s.log.Error("storage.CreateNotification",
			slog.Int64("user_id", userID),
			slog.String("title", title),
			slog.Any("error", err),
		)

		return
	}

	s.log.Debug("Notification stored", slog.Int64("user_id", userID), slog.Int64("notification_id", n.ID))
}
