package inmemory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/shopspring/decimal"
)

func (r *repo) CreatePayment(_ context.Context, p *payments.Payment) error {
	defer r.lock()()

	if _, ok := r.st.users[p.UserID()]; !ok {
		return storage.ErrUserNotFound
	}

	p.SetID(r.st.nextID())
	r.st.payments[p.ID()] = p.Record()

	return nil
}

func (r *repo) getPayment(id int64) (*payments.Payment, error) {
	rec, ok := r.st.payments[id]
	if !ok {
		return nil, storage.ErrPaymentNotFound
	}

	return payments.NewPayment(rec), nil
}

func (r *repo) GetPayment(_ context.Context, id int64) (*payments.Payment, error) {
	defer r.lock()()

	return r.getPayment(id)
}

func (r *repo) GetPaymentForUpdate(_ context.Context, id int64) (*payments.Payment, error) {
	defer r.lock()()

	return r.getPayment(id)
}

func (r *repo) UpdatePayment(_ context.Context, p *payments.Payment) error {
	defer r.lock()()

	if _, ok := r.st.payments[p.ID()]; !ok {
		return storage.ErrPaymentNotFound
	}

	r.st.payments[p.ID()] = p.Record()

	return nil
}

func (r *repo) ListPayments(_ context.Context, statuses ...payments.Status) ([]*payments.Payment, error) {
	defer r.lock()()

	recs := make([]payments.Record, 0)

	for _, p := range r.st.payments {
		if len(statuses) > 0 && !slices.Contains(statuses, p.Status) {
			continue
		}

		recs = append(recs, p)
	}

	sortNewest(recs, func(p payments.Record) (int64, int64) { return p.CreatedAt.UnixNano(), p.ID })

	list := make([]*payments.Payment, 0, len(recs))
	for _, rec := range recs {
		list = append(list, payments.NewPayment(rec))
	}

	return list, nil
}

func (r *repo) GetPaymentStats(_ context.Context, since time.Time) (payments.Stats, error) {
	defer r.lock()()

	stats := payments.Stats{ApprovedAmount: decimal.Zero}

	for _, p := range r.st.payments {
		switch p.Status {
		case payments.StatusPending:
			stats.Pending++
		case payments.StatusApproved:
			stats.ApprovedAmount = stats.ApprovedAmount.Add(p.PaymentAmount)

			if !p.CreatedAt.Before(since) {
				stats.ApprovedSince++
			}
		case payments.StatusRejected:
		}
	}

	return stats, nil
}

func (r *repo) CreateWithdrawal(_ context.Context, w *withdrawals.Withdrawal) error {
	defer r.lock()()

	if _, ok := r.st.users[w.UserID()]; !ok {
		return storage.ErrUserNotFound
	}

	w.SetID(r.st.nextID())
	r.st.withdrawals[w.ID()] = w.Record()

	return nil
}

func (r *repo) getWithdrawal(id int64) (*withdrawals.Withdrawal, error) {
	rec, ok := r.st.withdrawals[id]
	if !ok {
		return nil, storage.ErrWithdrawalNotFound
	}

	return withdrawals.NewWithdrawal(rec), nil
}

func (r *repo) GetWithdrawal(_ context.Context, id int64) (*withdrawals.Withdrawal, error) {
	defer r.lock()()

	return r.getWithdrawal(id)
}

func (r *repo) GetWithdrawalForUpdate(_ context.Context, id int64) (*withdrawals.Withdrawal, error) {
	defer r.lock()()

	return r.getWithdrawal(id)
}

func (r *repo) UpdateWithdrawal(_ context.Context, w *withdrawals.Withdrawal) error {
	defer r.lock()()

	if _, ok := r.st.withdrawals[w.ID()]; !ok {
		return storage.ErrWithdrawalNotFound
	}

	r.st.withdrawals[w.ID()] = w.Record()

	return nil
}

// ListWithdrawals matches the search against the owner's username and email
// and the payment method.
func (r *repo) ListWithdrawals(_ context.Context, filter withdrawals.Filter) ([]*withdrawals.Withdrawal, error) {
	defer r.lock()()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	recs := make([]withdrawals.Record, 0)

	for _, w := range r.st.withdrawals {
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}

		if search != "" {
			owner := r.st.users[w.UserID]

			if !strings.Contains(strings.ToLower(owner.Username), search) &&
				!strings.Contains(strings.ToLower(owner.Email), search) &&
				!strings.Contains(strings.ToLower(w.PaymentMethod), search) {
				continue
			}
		}

		recs = append(recs, w)
	}

	sortNewest(recs, func(w withdrawals.Record) (int64, int64) { return w.CreatedAt.UnixNano(), w.ID })

	list := make([]*withdrawals.Withdrawal, 0, len(recs))
	for _, rec := range recs {
		list = append(list, withdrawals.NewWithdrawal(rec))
	}

	return list, nil
}

func (r *repo) GetWithdrawalStats(_ context.Context) (withdrawals.Stats, error) {
	defer r.lock()()

	var stats withdrawals.Stats

	for _, w := range r.st.withdrawals {
		stats.Total++

		switch w.Status {
		case withdrawals.StatusPending:
			stats.Pending++
			stats.AmountPending += w.Amount
		case withdrawals.StatusApproved:
			stats.Approved++
			stats.AmountApproved += w.Amount
		case withdrawals.StatusRejected:
			stats.Rejected++
		}
	}

	return stats, nil
}

func (r *repo) CreateOrder(_ context.Context, order *orders.Order) error {
	defer r.lock()()

	if _, ok := r.st.users[order.UserID()]; !ok {
		return storage.ErrUserNotFound
	}

	if _, ok := r.st.items[order.ItemID()]; !ok {
		return storage.ErrItemNotFound
	}

	order.SetID(r.st.nextID())
	r.st.orders[order.ID()] = order.Record()

	return nil
}

func (r *repo) getOrder(id int64) (*orders.Order, error) {
	rec, ok := r.st.orders[id]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}

	return orders.NewOrder(rec), nil
}

func (r *repo) GetOrder(_ context.Context, id int64) (*orders.Order, error) {
	defer r.lock()()

	return r.getOrder(id)
}

func (r *repo) GetOrderForUpdate(_ context.Context, id int64) (*orders.Order, error) {
	defer r.lock()()

	return r.getOrder(id)
}

func (r *repo) UpdateOrder(_ context.Context, order *orders.Order) error {
	defer r.lock()()

	if _, ok := r.st.orders[order.ID()]; !ok {
		return storage.ErrOrderNotFound
	}

	r.st.orders[order.ID()] = order.Record()

	return nil
}

func (r *repo) listOrders(match func(orders.Record) bool) []*orders.Order {
	recs := make([]orders.Record, 0)

	for _, o := range r.st.orders {
		if match(o) {
			recs = append(recs, o)
		}
	}

	sortNewest(recs, func(o orders.Record) (int64, int64) { return o.CreatedAt.UnixNano(), o.ID })

	list := make([]*orders.Order, 0, len(recs))
	for _, rec := range recs {
		list = append(list, orders.NewOrder(rec))
	}

	return list
}

func (r *repo) ListOrders(_ context.Context, statuses ...orders.OrderStatus) ([]*orders.Order, error) {
	defer r.lock()()

	return r.listOrders(func(o orders.Record) bool {
		return len(statuses) == 0 || slices.Contains(statuses, o.Status)
	}), nil
}

func (r *repo) ListOrdersByUser(_ context.Context, userID int64) ([]*orders.Order, error) {
	defer r.lock()()

	return r.listOrders(func(o orders.Record) bool { return o.UserID == userID }), nil
}

func (r *repo) CountOrders(_ context.Context, status orders.OrderStatus) (int, error) {
	defer r.lock()()

	var count int

	for _, o := range r.st.orders {
		if o.Status == status {
			count++
		}
	}

	return count, nil
}
