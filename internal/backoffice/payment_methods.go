package backoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/users"
)

// ListPaymentMethods returns every payment method and how many are active.
func (s *Service) ListPaymentMethods(
	ctx context.Context, actor users.Principal,
) ([]*catalog.PaymentMethod, int, error) {
	if err := authorize(actor); err != nil {
		return nil, 0, err
	}

	list, err := s.store.ListPaymentMethods(ctx, false)
	if err != nil {
		return nil, 0, fmt.Errorf("store.ListPaymentMethods: %w", err)
	}

	var active int

	for _, m := range list {
		if m.IsActive {
			active++
		}
	}

	return list, active, nil
}

func (s *Service) CreatePaymentMethod(
	ctx context.Context, actor users.Principal, p catalog.MethodParams,
) (*catalog.PaymentMethod, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	m, err := catalog.NewPaymentMethod(p)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := s.store.CreatePaymentMethod(ctx, m); err != nil {
		return nil, fmt.Errorf("store.CreatePaymentMethod: %w", err)
	}

	s.log.Info("Payment method created", slog.Int64("method_id", m.ID), slog.String("name", m.Name))

	return m, nil
}

func (s *Service) UpdatePaymentMethod(
	ctx context.Context, actor users.Principal, methodID int64, p catalog.MethodParams,
) (*catalog.PaymentMethod, error) {
	return s.changePaymentMethod(ctx, actor, methodID, func(m *catalog.PaymentMethod) error {
		return m.Update(p)
	})
}

func (s *Service) TogglePaymentMethod(
	ctx context.Context, actor users.Principal, methodID int64,
) (*catalog.PaymentMethod, error) {
	return s.changePaymentMethod(ctx, actor, methodID, func(m *catalog.PaymentMethod) error {
		m.Toggle()

		return nil
	})
}

func (s *Service) changePaymentMethod(
	ctx context.Context, actor users.Principal, methodID int64, change func(m *catalog.PaymentMethod) error,
) (*catalog.PaymentMethod, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	m, err := s.store.GetPaymentMethod(ctx, methodID)
	if err != nil {
		return nil, fmt.Errorf("store.GetPaymentMethod: %w", err)
	}

	if err := change(m); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := s.store.UpdatePaymentMethod(ctx, m); err != nil {
		return nil, fmt.Errorf("store.UpdatePaymentMethod: %w", err)
	}

	s.log.Info("Payment method updated",
		slog.Int64("method_id", m.ID),
		slog.Bool("is_active", m.IsActive),
		slog.Int64("admin_id", actor.ID),
	)

	return m, nil
}

func (s *Service) DeletePaymentMethod(ctx context.Context, actor users.Principal, methodID int64) error {
	if err := authorize(actor); err != nil {
		return err
	}

	if err := s.store.DeletePaymentMethod(ctx, methodID); err != nil {
		return fmt.Errorf("store.DeletePaymentMethod: %w", err)
	}

	s.log.Info("Payment method deleted", slog.Int64("method_id", methodID), slog.Int64("admin_id", actor.ID))

	return nil
}
