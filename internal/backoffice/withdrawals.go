package backoffice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/storage"
)

var ErrUnknownAction = errors.New("action must be approve or reject")

type WithdrawalAction string

const (
	WithdrawalApprove WithdrawalAction = "approve"
	WithdrawalReject  WithdrawalAction = "reject"
)

func (s *Service) ListWithdrawals(
	ctx context.Context, actor users.Principal, filter withdrawals.Filter,
) ([]*withdrawals.Withdrawal, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListWithdrawals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store.ListWithdrawals: %w", err)
	}

	return list, nil
}

func (s *Service) WithdrawalStats(ctx context.Context, actor users.Principal) (withdrawals.Stats, error) {
	if err := authorize(actor); err != nil {
		return withdrawals.Stats{}, err
	}

	stats, err := s.store.GetWithdrawalStats(ctx)
	if err != nil {
		return withdrawals.Stats{}, fmt.Errorf("store.GetWithdrawalStats: %w", err)
	}

	return stats, nil
}

// ProcessWithdrawal approves or rejects a pending withdrawal. The coins left
// the wallet when the request was made, so only a rejection touches the
// balance: the full amount is refunded.
func (s *Service) ProcessWithdrawal(
	ctx context.Context, actor users.Principal, withdrawalID int64, action WithdrawalAction, notes string,
) (*withdrawals.Withdrawal, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	if action != WithdrawalApprove && action != WithdrawalReject {
		return nil, fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}

	var withdrawal *withdrawals.Withdrawal

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		w, err := repo.GetWithdrawalForUpdate(ctx, withdrawalID)
		if err != nil {
			return fmt.Errorf("repo.GetWithdrawalForUpdate: %w", err)
		}

		if action == WithdrawalApprove {
			if err := w.Approve(actor.ID, notes, s.now()); err != nil {
				return err //nolint:wrapcheck
			}
		} else {
			if err := w.Reject(actor.ID, notes, s.now()); err != nil {
				return err //nolint:wrapcheck
			}

			if _, err := s.mutator.Apply(ctx, repo, w.UserID(), w.Amount(), ledger.KindRefund,
				fmt.Sprintf("Refund for rejected withdrawal request #%d", w.ID())); err != nil {
				return fmt.Errorf("mutator.Apply: %w", err)
			}
		}

		if err := repo.UpdateWithdrawal(ctx, w); err != nil {
			return fmt.Errorf("repo.UpdateWithdrawal: %w", err)
		}

		withdrawal = w

		return nil
	})
	if err != nil {
		return nil, err
	}

	if action == WithdrawalApprove {
		s.notifier.Notify(ctx, withdrawal.UserID(), notifications.CategorySystem, "Withdrawal Approved",
			fmt.Sprintf("Your withdrawal request for %d coins has been approved and processed.",
				withdrawal.Amount()), walletLink)
	} else {
		s.notifier.Notify(ctx, withdrawal.UserID(), notifications.CategorySystem, "Withdrawal Rejected",
			fmt.Sprintf("Your withdrawal request for %d coins has been rejected. Coins have been refunded to your account.",
				withdrawal.Amount()), walletLink)
	}

	s.log.Info("Withdrawal processed",
		slog.Int64("withdrawal_id", withdrawal.ID()),
		slog.String("status", withdrawal.Status().String()),
		slog.Int64("admin_id", actor.ID),
	)

	return withdrawal, nil
}

func (s *Service) BulkProcessWithdrawals(
	ctx context.Context, actor users.Principal, ids []int64, action WithdrawalAction,
) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk(string(action)+" withdrawal", ids, func(id int64) error {
		_, err := s.ProcessWithdrawal(ctx, actor, id, action, "")

		return err
	})
}
