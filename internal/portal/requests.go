package portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/storage"
)

type PaymentParams struct {
	Coins          int64
	Amount         decimal.Decimal
	Method         string
	TransactionRef string
	ScreenshotURL  string
}

// RequestPayment records a coin purchase for manual review. The wallet is
// credited only when an administrator approves it.
func (s *Service) RequestPayment(ctx context.Context, userID int64, p PaymentParams) (*payments.Payment, error) {
	payment, err := payments.CreatePayment(userID, p.Coins, p.Amount, p.Method, p.TransactionRef, p.ScreenshotURL)
	if err != nil {
		return nil, fmt.Errorf("payments.CreatePayment: %w", err)
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("store.CreatePayment: %w", err)
	}

	s.log.Info("Payment requested",
		slog.Int64("payment_id", payment.ID()),
		slog.Int64("user_id", userID),
		slog.Int64("coins", p.Coins),
	)

	return payment, nil
}

type WithdrawalParams struct {
	Amount         int64
	Method         string
	AccountDetails string
	QRURL          string
}

// RequestWithdrawal takes the coins out of the wallet immediately and files
// the request. A rejected request is refunded from the back office.
func (s *Service) RequestWithdrawal(
	ctx context.Context, userID int64, p WithdrawalParams,
) (*withdrawals.Withdrawal, error) {
	w, err := withdrawals.CreateWithdrawal(userID, p.Amount, p.Method, p.AccountDetails, p.QRURL)
	if err != nil {
		return nil, fmt.Errorf("withdrawals.CreateWithdrawal: %w", err)
	}

	err = s.store.WithinTx(ctx, func(repo storage.Repo) error {
		if err := repo.CreateWithdrawal(ctx, w); err != nil {
			return fmt.Errorf("repo.CreateWithdrawal: %w", err)
		}

		if _, err := s.wallet.Mutator().Apply(ctx, repo, userID, -w.Amount(), ledger.KindWithdrawal,
			fmt.Sprintf("Withdrawal request #%d", w.ID())); err != nil {
			return fmt.Errorf("mutator.Apply: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.log.Info("Withdrawal requested", slog.Int64("withdrawal_id", w.ID()), slog.Int64("user_id", userID))

	return w, nil
}

type OrderParams struct {
	ItemID     int64
	Quantity   int
	InGameID   string
	InGameName string
}

// PlaceOrder buys an active store item, paying price times quantity.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, p OrderParams) (*orders.Order, error) {
	var order *orders.Order

	err := s.store.WithinTx(ctx, func(repo storage.Repo) error {
		item, err := repo.GetItem(ctx, p.ItemID)
		if err != nil {
			return fmt.Errorf("repo.GetItem: %w", err)
		}

		if !item.IsActive {
			return fmt.Errorf("item %d: %w", item.ID, catalog.ErrItemInactive)
		}

		o, err := orders.CreateOrder(userID, item.ID, item.Price, p.Quantity, p.InGameID, p.InGameName)
		if err != nil {
			return fmt.Errorf("orders.CreateOrder: %w", err)
		}

		if _, err := s.wallet.Mutator().Apply(ctx, repo, userID, -o.TotalPrice(), ledger.KindPurchase,
			fmt.Sprintf("Purchase: %s x%d", item.Name, o.Quantity())); err != nil {
			return fmt.Errorf("mutator.Apply: %w", err)
		}

		if err := repo.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("repo.CreateOrder: %w", err)
		}

		order = o

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.notifier.Notify(ctx, userID, notifications.CategoryOrder, "Order Placed",
		fmt.Sprintf("Your order %s has been placed.", order.Number()), "/orders/")

	s.log.Info("Order placed", slog.String("order_number", order.Number()), slog.Int64("user_id", userID))

	return order, nil
}

func (s *Service) Orders(ctx context.Context, userID int64) ([]*orders.Order, error) {
	list, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.ListOrdersByUser: %w", err)
	}

	return list, nil
}

// Store lists the active items of a game, or of every game when gameID is 0.
func (s *Service) Store(ctx context.Context, gameID int64) ([]*catalog.Item, error) {
	items, err := s.store.ListItems(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("store.ListItems: %w", err)
	}

	active := make([]*catalog.Item, 0, len(items))

	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}

	return active, nil
}

// PaymentMethods lists the active accounts users can pay to.
func (s *Service) PaymentMethods(ctx context.Context) ([]*catalog.PaymentMethod, error) {
	list, err := s.store.ListPaymentMethods(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("store.ListPaymentMethods: %w", err)
	}

	return list, nil
}

func (s *Service) SendMessage(ctx context.Context, userID int64, subject, body string) (*chats.Message, error) {
	m, err := chats.NewMessage(userID, subject, body)
	if err != nil {
		return nil, fmt.Errorf("chats.NewMessage: %w", err)
	}

	if err := s.store.CreateChat(ctx, m); err != nil {
		return nil, fmt.Errorf("store.CreateChat: %w", err)
	}

	return m, nil
}
