package backoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

const walletLink = "/wallet/"

func (s *Service) ListPayments(
	ctx context.Context, actor users.Principal, statuses ...payments.Status,
) ([]*payments.Payment, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListPayments(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("store.ListPayments: %w", err)
	}

	return list, nil
}

// ApprovePayment credits the requested coins to the payer.
func (s *Service) ApprovePayment(
	ctx context.Context, actor users.Principal, paymentID int64, notes string,
) (*payments.Payment, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var payment *payments.Payment

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		p, err := repo.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("repo.GetPaymentForUpdate: %w", err)
		}

		if err := p.Approve(actor.ID, notes, s.now()); err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := s.mutator.Apply(ctx, repo, p.UserID(), p.CoinsAmount(), ledger.KindDeposit,
			fmt.Sprintf("Payment approved - %d coins", p.CoinsAmount())); err != nil {
			return fmt.Errorf("mutator.Apply: %w", err)
		}

		if err := repo.UpdatePayment(ctx, p); err != nil {
			return fmt.Errorf("repo.UpdatePayment: %w", err)
		}

		payment = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, payment.UserID(), notifications.CategoryPayment, "Payment Approved",
		fmt.Sprintf("Your payment request for %d coins has been approved!", payment.CoinsAmount()), walletLink)

	s.log.Info("Payment approved",
		slog.Int64("payment_id", payment.ID()),
		slog.Int64("admin_id", actor.ID),
		slog.Int64("coins", payment.CoinsAmount()),
	)

	return payment, nil
}

// RejectPayment closes the request without touching the balance.
func (s *Service) RejectPayment(
	ctx context.Context, actor users.Principal, paymentID int64, notes string,
) (*payments.Payment, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var payment *payments.Payment

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		p, err := repo.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("repo.GetPaymentForUpdate: %w", err)
		}

		if err := p.Reject(actor.ID, notes, s.now()); err != nil {
			return err //nolint:wrapcheck
		}

		if err := repo.UpdatePayment(ctx, p); err != nil {
			return fmt.Errorf("repo.UpdatePayment: %w", err)
		}

		payment = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, payment.UserID(), notifications.CategoryPayment, "Payment Rejected",
		fmt.Sprintf("Your payment request for %d coins has been rejected. Please contact support.",
			payment.CoinsAmount()), walletLink)

	s.log.Info("Payment rejected", slog.Int64("payment_id", payment.ID()), slog.Int64("admin_id", actor.ID))

	return payment, nil
}

func (s *Service) BulkApprovePayments(ctx context.Context, actor users.Principal, ids []int64) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("approve payment", ids, func(id int64) error {
		_, err := s.ApprovePayment(ctx, actor, id, "")

		return err
	})
}

func (s *Service) BulkRejectPayments(ctx context.Context, actor users.Principal, ids []int64) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("reject payment", ids, func(id int64) error {
		_, err := s.RejectPayment(ctx, actor, id, "")

		return err
	})
}
