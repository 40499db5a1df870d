package backoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

const ordersLink = "/orders/"

type orderNotice struct {
	title   string
	message string
}

var orderNotices = map[orders.OrderStatus]orderNotice{
	orders.OrderStatusProcessing: {"Order Processing", "Your order %s is being processed."},
	orders.OrderStatusCompleted:  {"Order Completed", "Your order %s has been delivered to your game account!"},
	orders.OrderStatusCancelled:  {"Order Cancelled", "Your order %s has been cancelled. Coins have been refunded."},
}

func (s *Service) ListOrders(
	ctx context.Context, actor users.Principal, statuses ...orders.OrderStatus,
) ([]*orders.Order, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListOrders(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("store.ListOrders: %w", err)
	}

	return list, nil
}

// UpdateOrderStatus moves an open order forward. Cancelling refunds the
// total price that was paid when the order was placed.
func (s *Service) UpdateOrderStatus(
	ctx context.Context, actor users.Principal, orderID int64, status orders.OrderStatus, notes string,
) (*orders.Order, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var order *orders.Order

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		o, err := repo.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("repo.GetOrderForUpdate: %w", err)
		}

		if err := o.Transition(status, notes, s.now()); err != nil {
			return err //nolint:wrapcheck
		}

		if status == orders.OrderStatusCancelled {
			if _, err := s.mutator.Apply(ctx, repo, o.UserID(), o.TotalPrice(), ledger.KindRefund,
				"Refund for cancelled order: "+o.Number()); err != nil {
				return fmt.Errorf("mutator.Apply: %w", err)
			}
		}

		if err := repo.UpdateOrder(ctx, o); err != nil {
			return fmt.Errorf("repo.UpdateOrder: %w", err)
		}

		order = o

		return nil
	})
	if err != nil {
		return nil, err
	}

	notice := orderNotices[status]

	s.notifier.Notify(ctx, order.UserID(), notifications.CategoryOrder, notice.title,
		fmt.Sprintf(notice.message, order.Number()), ordersLink)

	s.log.Info("Order updated",
		slog.String("order_number", order.Number()),
		slog.String("status", status.String()),
		slog.Int64("admin_id", actor.ID),
	)

	return order, nil
}

func (s *Service) BulkUpdateOrders(
	ctx context.Context, actor users.Principal, ids []int64, status orders.OrderStatus,
) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("order "+status.String(), ids, func(id int64) error {
		_, err := s.UpdateOrderStatus(ctx, actor, id, status, "")

		return err
	})
}
