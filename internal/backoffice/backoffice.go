// Package backoffice implements the administrator operations. Every operation
// takes the acting principal explicitly; balance changes go through the
// wallet mutator inside the same transaction as the state change they follow,
// and notifications are sent only after that transaction commits.
package backoffice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/guard"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/notifier"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

var (
	ErrForbidden     = errors.New("administrator role required")
	ErrAmountInvalid = errors.New("amount must be positive")
)

type Service struct {
	log      *slog.Logger
	store    storage.Storage
	mutator  *wallet.Mutator
	notifier notifier.Notifier
	awarder  PrizeAwarder
	now      func() time.Time
}

type Config struct {
	logger   *slog.Logger
	notifier notifier.Notifier
	awarder  PrizeAwarder
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

// WithPrizeAwarder replaces the routine that pays out a resolved dispute.
func WithPrizeAwarder(awarder PrizeAwarder) Option {
	return func(c *Config) {
		c.awarder = awarder
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}

func New(store storage.Storage, mutator *wallet.Mutator, opts ...Option) *Service {
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

	if cfg.awarder == nil {
		cfg.awarder = NewPoolAwarder(mutator)
	}

	return &Service{
		log:      cfg.logger.With(slog.String("module", "backoffice")),
		store:    store,
		mutator:  mutator,
		notifier: cfg.notifier,
		awarder:  cfg.awarder,
		now:      cfg.now,
	}
}

func authorize(actor users.Principal) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("user %d: %w", actor.ID, ErrForbidden)
	}

	return nil
}

// BulkResult reports which ids of a bulk action were applied. Ids whose
// request was already processed or otherwise not eligible are skipped.
type BulkResult struct {
	Processed []int64
	Skipped   []int64
}

// bulk runs op for every id in order. Guard and validation failures skip the
// id; any other failure stops the iteration.
func (s *Service) bulk(action string, ids []int64, op func(id int64) error) (BulkResult, error) {
	res := BulkResult{
		Processed: make([]int64, 0, len(ids)),
		Skipped:   make([]int64, 0),
	}

	for _, id := range ids {
		err := op(id)

		switch {
		case err == nil:
			res.Processed = append(res.Processed, id)
		case isSkippable(err):
			s.log.Info("Bulk action skipped", slog.String("action", action), slog.Int64("id", id),
				slog.Any("reason", err))

			res.Skipped = append(res.Skipped, id)
		default:
			return res, fmt.Errorf("%s %d: %w", action, id, err)
		}
	}

	return res, nil
}

func isSkippable(err error) bool {
	for _, target := range []error{
		guard.ErrAlreadyProcessed,
		guard.ErrInvalidTransition,
		wallet.ErrInsufficientFunds,
		tournaments.ErrNoPrize,
		storage.ErrPaymentNotFound,
		storage.ErrWithdrawalNotFound,
		storage.ErrOrderNotFound,
		storage.ErrUserNotFound,
		storage.ErrTournamentNotFound,
		storage.ErrParticipantNotFound,
		storage.ErrItemNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func (s *Service) withinTx(ctx context.Context, fn func(repo storage.Repo) error) error {
	return s.store.WithinTx(ctx, fn) //nolint:wrapcheck
}
