package backoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

// userListLimit caps the user management listing.
const userListLimit = 50

const (
	defaultAdjustReason = "Admin adjustment"
	bonusReason         = "Admin bonus"
	deductionReason     = "Admin deduction"
)

func (s *Service) ListUsers(ctx context.Context, actor users.Principal, search string) ([]*users.User, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListUsers(ctx, search, userListLimit)
	if err != nil {
		return nil, fmt.Errorf("store.ListUsers: %w", err)
	}

	return list, nil
}

func (s *Service) GetUser(ctx context.Context, actor users.Principal, userID int64) (*users.User, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	usr, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.GetUser: %w", err)
	}

	return usr, nil
}

// AddCoins grants amount coins to a user as an admin adjustment.
func (s *Service) AddCoins(
	ctx context.Context, actor users.Principal, userID, amount int64, reason string,
) (*ledger.Entry, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	if amount <= 0 {
		return nil, ErrAmountInvalid
	}

	if reason == "" {
		reason = defaultAdjustReason
	}

	entry, err := s.adjust(ctx, userID, amount, reason)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, userID, notifications.CategorySystem, "Coins Added",
		fmt.Sprintf("%d coins have been added to your account!", amount), walletLink)

	s.log.Info("Coins added",
		slog.Int64("user_id", userID),
		slog.Int64("amount", amount),
		slog.Int64("admin_id", actor.ID),
	)

	return entry, nil
}

// BulkGrantCoins adds amount coins to every listed user.
func (s *Service) BulkGrantCoins(
	ctx context.Context, actor users.Principal, userIDs []int64, amount int64,
) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	if amount <= 0 {
		return BulkResult{}, ErrAmountInvalid
	}

	return s.bulk("grant coins", userIDs, func(id int64) error {
		_, err := s.adjust(ctx, id, amount, bonusReason)

		return err
	})
}

// BulkDeductCoins takes amount coins from every listed user who can afford
// it. Users with a smaller balance are skipped and keep their coins.
func (s *Service) BulkDeductCoins(
	ctx context.Context, actor users.Principal, userIDs []int64, amount int64,
) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	if amount <= 0 {
		return BulkResult{}, ErrAmountInvalid
	}

	return s.bulk("deduct coins", userIDs, func(id int64) error {
		_, err := s.adjust(ctx, id, -amount, deductionReason)

		return err
	})
}

func (s *Service) adjust(ctx context.Context, userID, delta int64, reason string) (*ledger.Entry, error) {
	var entry *ledger.Entry

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		var err error

		entry, err = s.mutator.Apply(ctx, repo, userID, delta, ledger.KindAdminAdjustment, reason)
		if err != nil {
			return fmt.Errorf("mutator.Apply: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}
