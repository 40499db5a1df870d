// Package wallet owns every change of a user's coin balance. A change and its
// ledger entry are always written in the same storage transaction.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/storage"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrZeroAmount        = errors.New("amount must not be zero")
)

// Mutator applies signed balance changes inside a caller-owned transaction.
type Mutator struct {
	log *slog.Logger
	now func() time.Time
}

type Config struct {
	logger *slog.Logger
	now    func() time.Time
}

type Option func(c *Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithClock overrides the time source of ledger entries.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}

func NewMutator(opts ...Option) *Mutator {
	cfg := &Config{
		logger: logger.NewNop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Mutator{
		log: cfg.logger.With(slog.String("module", "wallet")),
		now: cfg.now,
	}
}

// Apply locks the user, adds delta to the balance and appends a ledger entry
// whose balance after equals the new balance. repo must be the transaction
// the caller commits; on error nothing has been made durable by Apply.
func (m *Mutator) Apply(
	ctx context.Context, repo storage.Repo, userID, delta int64, kind ledger.Kind, description string,
) (*ledger.Entry, error) {
	if delta == 0 {
		return nil, ErrZeroAmount
	}

	if err := ledger.CheckAmount(kind, delta); err != nil {
		return nil, fmt.Errorf("ledger.CheckAmount: %w", err)
	}

	usr, err := repo.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.GetUserForUpdate: %w", err)
	}

	if err := usr.AdjustCoins(delta); err != nil {
		if errors.Is(err, users.ErrNegativeBalance) {
			return nil, fmt.Errorf("user %d has %d coins, change %d: %w",
				userID, usr.Coins(), delta, ErrInsufficientFunds)
		}

		return nil, fmt.Errorf("usr.AdjustCoins: %w", err)
	}

	entry, err := ledger.NewEntry(userID, kind, delta, usr.Coins(), description, m.now())
	if err != nil {
		return nil, fmt.Errorf("ledger.NewEntry: %w", err)
	}

	if err := repo.UpdateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("repo.UpdateUser: %w", err)
	}

	if err := repo.CreateLedgerEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("repo.CreateLedgerEntry: %w", err)
	}

	m.log.Debug("Balance changed",
		slog.Int64("user_id", userID),
		slog.String("kind", kind.String()),
		slog.Int64("amount", delta),
		slog.Int64("balance_after", usr.Coins()),
	)

	return entry, nil
}

// Wallet serves standalone balance operations, each in its own transaction.
type Wallet struct {
	store   storage.Storage
	mutator *Mutator
}

func New(store storage.Storage, mutator *Mutator) *Wallet {
	return &Wallet{
		store:   store,
		mutator: mutator,
	}
}

func (w *Wallet) Mutator() *Mutator {
	return w.mutator
}

func (w *Wallet) Adjust(
	ctx context.Context, userID, delta int64, kind ledger.Kind, description string,
) (*ledger.Entry, error) {
	var entry *ledger.Entry

	err := w.store.WithinTx(ctx, func(repo storage.Repo) error {
		var err error

		entry, err = w.mutator.Apply(ctx, repo, userID, delta, kind, description)

		return err
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return entry, nil
}

func (w *Wallet) Balance(ctx context.Context, userID int64) (int64, error) {
	usr, err := w.store.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("store.GetUser: %w", err)
	}

	return usr.Coins(), nil
}

// History returns the user's ledger, newest entry first.
func (w *Wallet) History(ctx context.Context, userID int64) ([]*ledger.Entry, error) {
	entries, err := w.store.ListLedgerEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.ListLedgerEntries: %w", err)
	}

	return entries, nil
}
