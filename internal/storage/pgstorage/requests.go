package pgstorage

import (
	"context"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/dbmodels"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// statusArray converts a status filter for `= ANY($n)`. An empty filter
// yields NULL so that `$n IS NULL` matches every row.
func statusArray[S ~string](statuses []S) any {
	if len(statuses) == 0 {
		return nil
	}

	list := make([]string, 0, len(statuses))
	for _, s := range statuses {
		list = append(list, string(s))
	}

	return pq.Array(list)
}

const paymentColumns = `id, user_id, coins_amount, payment_amount, payment_method, transaction_ref,` +
	` screenshot_url, status, admin_notes, processed_by, processed_at, created_at`

func scanPayment(row scanner) (*payments.Payment, error) {
	var p dbmodels.PaymentRequest

	if err := row.Scan(&p.ID, &p.UserID, &p.CoinsAmount, &p.PaymentAmount, &p.PaymentMethod,
		&p.TransactionRef, &p.ScreenshotURL, &p.Status, &p.AdminNotes, &p.ProcessedBy,
		&p.ProcessedAt, &p.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return payments.NewPayment(p.Record()), nil
}

func (q *queries) CreatePayment(ctx context.Context, p *payments.Payment) error {
	rec := p.Record()

	id, err := q.insert(ctx, nil,
		`INSERT INTO payment_requests (user_id, coins_amount, payment_amount, payment_method,`+
			` transaction_ref, screenshot_url, status, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		rec.UserID, rec.CoinsAmount, rec.PaymentAmount, rec.PaymentMethod,
		rec.TransactionRef, rec.ScreenshotURL, rec.Status.String(), rec.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}

		return err
	}

	p.SetID(id)

	return nil
}

func (q *queries) getPayment(ctx context.Context, query string, id int64) (*payments.Payment, error) {
	var p *payments.Payment

	err := q.getOne(ctx, storage.ErrPaymentNotFound, func(row scanner) error {
		var err error
		p, err = scanPayment(row)

		return err
	}, query, id)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (q *queries) GetPayment(ctx context.Context, id int64) (*payments.Payment, error) {
	return q.getPayment(ctx, `SELECT `+paymentColumns+` FROM payment_requests WHERE id = $1`, id)
}

func (q *queries) GetPaymentForUpdate(ctx context.Context, id int64) (*payments.Payment, error) {
	return q.getPayment(ctx, `SELECT `+paymentColumns+` FROM payment_requests WHERE id = $1 FOR UPDATE`, id)
}

func (q *queries) UpdatePayment(ctx context.Context, p *payments.Payment) error {
	rec := p.Record()

	return q.update(ctx, storage.ErrPaymentNotFound,
		`UPDATE payment_requests SET status = $1, admin_notes = $2, processed_by = $3, processed_at = $4`+
			` WHERE id = $5`,
		rec.Status.String(), rec.AdminNotes, dbmodels.NullInt64(rec.ProcessedBy),
		dbmodels.NullTime(rec.ProcessedAt), rec.ID,
	)
}

func (q *queries) ListPayments(ctx context.Context, statuses ...payments.Status) ([]*payments.Payment, error) {
	var list []*payments.Payment

	err := q.getMany(ctx,
		func() { list = make([]*payments.Payment, 0) },
		func(row scanner) error {
			p, err := scanPayment(row)
			if err != nil {
				return err
			}

			list = append(list, p)

			return nil
		},
		`SELECT `+paymentColumns+` FROM payment_requests WHERE $1::text[] IS NULL OR status = ANY($1)`+
			` ORDER BY created_at DESC, id DESC`,
		statusArray(statuses),
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) GetPaymentStats(ctx context.Context, since time.Time) (payments.Stats, error) {
	var stats payments.Stats

	err := q.getOne(ctx, storage.ErrPaymentNotFound, func(row scanner) error {
		var amount decimal.NullDecimal

		if err := row.Scan(&stats.Pending, &stats.ApprovedSince, &amount); err != nil {
			return err //nolint:wrapcheck
		}

		stats.ApprovedAmount = decimal.Zero
		if amount.Valid {
			stats.ApprovedAmount = amount.Decimal
		}

		return nil
	},
		`SELECT`+
			` count(*) FILTER (WHERE status = 'pending'),`+
			` count(*) FILTER (WHERE status = 'approved' AND created_at >= $1),`+
			` sum(payment_amount) FILTER (WHERE status = 'approved')`+
			` FROM payment_requests`,
		since,
	)
	if err != nil {
		return payments.Stats{}, err
	}

	return stats, nil
}

const withdrawalColumns = `w.id, w.user_id, w.amount, w.payment_method, w.account_details, w.qr_url,` +
	` w.status, w.admin_notes, w.processed_by, w.processed_at, w.created_at`

func scanWithdrawal(row scanner) (*withdrawals.Withdrawal, error) {
	var w dbmodels.WithdrawalRequest

	if err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.PaymentMethod, &w.AccountDetails, &w.QRURL,
		&w.Status, &w.AdminNotes, &w.ProcessedBy, &w.ProcessedAt, &w.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return withdrawals.NewWithdrawal(w.Record()), nil
}

func (q *queries) CreateWithdrawal(ctx context.Context, w *withdrawals.Withdrawal) error {
	rec := w.Record()

	id, err := q.insert(ctx, nil,
		`INSERT INTO withdrawal_requests (user_id, amount, payment_method, account_details, qr_url,`+
			` status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		rec.UserID, rec.Amount, rec.PaymentMethod, rec.AccountDetails, rec.QRURL,
		rec.Status.String(), rec.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}

		return err
	}

	w.SetID(id)

	return nil
}

func (q *queries) getWithdrawal(ctx context.Context, query string, id int64) (*withdrawals.Withdrawal, error) {
	var w *withdrawals.Withdrawal

	err := q.getOne(ctx, storage.ErrWithdrawalNotFound, func(row scanner) error {
		var err error
		w, err = scanWithdrawal(row)

		return err
	}, query, id)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (q *queries) GetWithdrawal(ctx context.Context, id int64) (*withdrawals.Withdrawal, error) {
	return q.getWithdrawal(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests w WHERE w.id = $1`, id)
}

func (q *queries) GetWithdrawalForUpdate(ctx context.Context, id int64) (*withdrawals.Withdrawal, error) {
	return q.getWithdrawal(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawal_requests w WHERE w.id = $1 FOR UPDATE`, id)
}

func (q *queries) UpdateWithdrawal(ctx context.Context, w *withdrawals.Withdrawal) error {
	rec := w.Record()

	return q.update(ctx, storage.ErrWithdrawalNotFound,
		`UPDATE withdrawal_requests SET status = $1, admin_notes = $2, processed_by = $3, processed_at = $4`+
			` WHERE id = $5`,
		rec.Status.String(), rec.AdminNotes, dbmodels.NullInt64(rec.ProcessedBy),
		dbmodels.NullTime(rec.ProcessedAt), rec.ID,
	)
}

func (q *queries) ListWithdrawals(ctx context.Context, filter withdrawals.Filter) ([]*withdrawals.Withdrawal, error) {
	var list []*withdrawals.Withdrawal

	err := q.getMany(ctx,
		func() { list = make([]*withdrawals.Withdrawal, 0) },
		func(row scanner) error {
			w, err := scanWithdrawal(row)
			if err != nil {
				return err
			}

			list = append(list, w)

			return nil
		},
		`SELECT `+withdrawalColumns+` FROM withdrawal_requests w JOIN users u ON u.id = w.user_id`+
			` WHERE ($1 = '' OR w.status = $1)`+
			` AND ($2 = '' OR u.username ILIKE '%' || $2 || '%' OR u.email ILIKE '%' || $2 || '%'`+
			` OR w.payment_method ILIKE '%' || $2 || '%')`+
			` ORDER BY w.created_at DESC, w.id DESC`,
		filter.Status.String(), filter.Search,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) GetWithdrawalStats(ctx context.Context) (withdrawals.Stats, error) {
	var stats withdrawals.Stats

	err := q.getOne(ctx, storage.ErrWithdrawalNotFound, func(row scanner) error {
		return row.Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected,
			&stats.AmountPending, &stats.AmountApproved)
	},
		`SELECT count(*),`+
			` count(*) FILTER (WHERE status = 'pending'),`+
			` count(*) FILTER (WHERE status = 'approved'),`+
			` count(*) FILTER (WHERE status = 'rejected'),`+
			` coalesce(sum(amount) FILTER (WHERE status = 'pending'), 0),`+
			` coalesce(sum(amount) FILTER (WHERE status = 'approved'), 0)`+
			` FROM withdrawal_requests`,
	)
	if err != nil {
		return withdrawals.Stats{}, err
	}

	return stats, nil
}

const orderColumns = `id, order_number, user_id, item_id, quantity, total_price, in_game_id, in_game_name,` +
	` status, admin_notes, created_at, completed_at`

func scanOrder(row scanner) (*orders.Order, error) {
	var o dbmodels.Order

	if err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.ItemID, &o.Quantity, &o.TotalPrice,
		&o.InGameID, &o.InGameName, &o.Status, &o.AdminNotes, &o.CreatedAt, &o.CompletedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return orders.NewOrder(o.Record()), nil
}

func (q *queries) CreateOrder(ctx context.Context, order *orders.Order) error {
	rec := order.Record()

	id, err := q.insert(ctx, nil,
		`INSERT INTO orders (order_number, user_id, item_id, quantity, total_price, in_game_id,`+
			` in_game_name, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		rec.Number, rec.UserID, rec.ItemID, rec.Quantity, rec.TotalPrice, rec.InGameID,
		rec.InGameName, rec.Status.String(), rec.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrItemNotFound
		}

		return err
	}

	order.SetID(id)

	return nil
}

func (q *queries) getOrder(ctx context.Context, query string, id int64) (*orders.Order, error) {
	var o *orders.Order

	err := q.getOne(ctx, storage.ErrOrderNotFound, func(row scanner) error {
		var err error
		o, err = scanOrder(row)

		return err
	}, query, id)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (q *queries) GetOrder(ctx context.Context, id int64) (*orders.Order, error) {
	return q.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (q *queries) GetOrderForUpdate(ctx context.Context, id int64) (*orders.Order, error) {
	return q.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (q *queries) UpdateOrder(ctx context.Context, order *orders.Order) error {
	rec := order.Record()

	return q.update(ctx, storage.ErrOrderNotFound,
		`UPDATE orders SET status = $1, admin_notes = $2, completed_at = $3 WHERE id = $4`,
		rec.Status.String(), rec.AdminNotes, dbmodels.NullTime(rec.CompletedAt), rec.ID,
	)
}

func (q *queries) listOrders(ctx context.Context, query string, args ...any) ([]*orders.Order, error) {
	var list []*orders.Order

	err := q.getMany(ctx,
		func() { list = make([]*orders.Order, 0) },
		func(row scanner) error {
			o, err := scanOrder(row)
			if err != nil {
				return err
			}

			list = append(list, o)

			return nil
		},
		query, args...,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) ListOrders(ctx context.Context, statuses ...orders.OrderStatus) ([]*orders.Order, error) {
	return q.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE $1::text[] IS NULL OR status = ANY($1)`+
			` ORDER BY created_at DESC, id DESC`,
		statusArray(statuses))
}

func (q *queries) ListOrdersByUser(ctx context.Context, userID int64) ([]*orders.Order, error) {
	return q.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (q *queries) CountOrders(ctx context.Context, status orders.OrderStatus) (int, error) {
	return q.count(ctx, `SELECT count(*) FROM orders WHERE status = $1`, status.String())
}
