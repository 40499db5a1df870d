package backoffice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
)

const (
	dashboardWindow = 7 * 24 * time.Hour
	recentLimit     = 5
)

type Dashboard struct {
	TotalUsers        int
	TotalTournaments  int
	ActiveTournaments int
	PendingPayments   int
	PendingOrders     int
	Revenue           decimal.Decimal
	NewUsers          int
	ApprovedPayments  int
	RecentUsers       []*users.User
	RecentPayments    []*payments.Payment
	RecentOrders      []*orders.Order
}

func (s *Service) Dashboard(ctx context.Context, actor users.Principal) (*Dashboard, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	since := s.now().Add(-dashboardWindow)

	var (
		d   Dashboard
		err error
	)

	if d.TotalUsers, err = s.store.CountUsers(ctx, time.Time{}); err != nil {
		return nil, fmt.Errorf("store.CountUsers: %w", err)
	}

	if d.NewUsers, err = s.store.CountUsers(ctx, since); err != nil {
		return nil, fmt.Errorf("store.CountUsers: %w", err)
	}

	if d.TotalTournaments, err = s.store.CountTournaments(ctx); err != nil {
		return nil, fmt.Errorf("store.CountTournaments: %w", err)
	}

	if d.ActiveTournaments, err = s.store.CountTournaments(ctx, tournaments.StatusOngoing); err != nil {
		return nil, fmt.Errorf("store.CountTournaments: %w", err)
	}

	if d.PendingOrders, err = s.store.CountOrders(ctx, orders.OrderStatusPending); err != nil {
		return nil, fmt.Errorf("store.CountOrders: %w", err)
	}

	stats, err := s.store.GetPaymentStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("store.GetPaymentStats: %w", err)
	}

	d.PendingPayments = stats.Pending
	d.ApprovedPayments = stats.ApprovedSince
	d.Revenue = stats.ApprovedAmount

	if d.RecentUsers, err = s.store.ListUsers(ctx, "", recentLimit); err != nil {
		return nil, fmt.Errorf("store.ListUsers: %w", err)
	}

	recentPayments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListPayments: %w", err)
	}

	recentOrders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListOrders: %w", err)
	}

	d.RecentPayments = recentPayments[:min(len(recentPayments), recentLimit)]
	d.RecentOrders = recentOrders[:min(len(recentOrders), recentLimit)]

	return &d, nil
}
