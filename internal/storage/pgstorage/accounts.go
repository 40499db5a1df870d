package pgstorage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/dbmodels"
)

const userColumns = `id, username, email, password_hash, role, coins, tournaments_won, tournaments_played, created_at`

func scanUser(row scanner, u *dbmodels.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Coins, &u.TournamentsWon, &u.TournamentsPlayed, &u.CreatedAt)
}

func (q *queries) CreateUser(ctx context.Context, usr *users.User) error {
	rec := usr.Record()

	id, err := q.insert(ctx, storage.ErrUserAlreadyExists,
		`INSERT INTO users (username, email, password_hash, role, coins, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rec.Username, rec.Email, rec.PasswordHash, rec.Role.String(), rec.Coins, rec.CreatedAt,
	)
	if err != nil {
		return err
	}

	usr.SetID(id)

	return nil
}

func (q *queries) getUser(ctx context.Context, query string, args ...any) (*users.User, error) {
	var dbUser dbmodels.User

	err := q.getOne(ctx, storage.ErrUserNotFound,
		func(row scanner) error { return scanUser(row, &dbUser) }, query, args...)
	if err != nil {
		return nil, err
	}

	usr, err := users.NewUser(dbUser.Record())
	if err != nil {
		return nil, fmt.Errorf("users.NewUser: %w", err)
	}

	return usr, nil
}

func (q *queries) GetUser(ctx context.Context, id int64) (*users.User, error) {
	return q.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (q *queries) GetUserForUpdate(ctx context.Context, id int64) (*users.User, error) {
	return q.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (*users.User, error) {
	return q.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username)
}

func (q *queries) UpdateUser(ctx context.Context, usr *users.User) error {
	rec := usr.Record()

	return q.update(ctx, storage.ErrUserNotFound,
		`UPDATE users SET email = $1, password_hash = $2, role = $3, coins = $4,`+
			` tournaments_won = $5, tournaments_played = $6 WHERE id = $7`,
		rec.Email, rec.PasswordHash, rec.Role.String(), rec.Coins,
		rec.TournamentsWon, rec.TournamentsPlayed, rec.ID,
	)
}

func (q *queries) ListUsers(ctx context.Context, search string, limit int) ([]*users.User, error) {
	var dbUsers []dbmodels.User

	err := q.getMany(ctx,
		func() { dbUsers = dbUsers[:0] },
		func(row scanner) error {
			var u dbmodels.User
			if err := scanUser(row, &u); err != nil {
				return err
			}

			dbUsers = append(dbUsers, u)

			return nil
		},
		`SELECT `+userColumns+` FROM users`+
			` WHERE $1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'`+
			` ORDER BY created_at DESC, id DESC LIMIT NULLIF($2, 0)`,
		search, limit,
	)
	if err != nil {
		return nil, err
	}

	list := make([]*users.User, 0, len(dbUsers))

	for _, u := range dbUsers {
		usr, err := users.NewUser(u.Record())
		if err != nil {
			return nil, fmt.Errorf("users.NewUser: %w", err)
		}

		list = append(list, usr)
	}

	return list, nil
}

func (q *queries) CountUsers(ctx context.Context, joinedSince time.Time) (int, error) {
	return q.count(ctx, `SELECT count(*) FROM users WHERE created_at >= $1`, joinedSince)
}

func (q *queries) CreateLedgerEntry(ctx context.Context, entry *ledger.Entry) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO ledger_entries (user_id, kind, amount, balance_after, description, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		entry.UserID(), entry.Kind().String(), entry.Amount(), entry.BalanceAfter(),
		entry.Description(), entry.CreatedAt(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}

		return err
	}

	entry.SetID(id)

	return nil
}

func (q *queries) ListLedgerEntries(ctx context.Context, userID int64) ([]*ledger.Entry, error) {
	var list []*ledger.Entry

	err := q.getMany(ctx,
		func() { list = make([]*ledger.Entry, 0) },
		func(row scanner) error {
			var (
				id, uid, amount, balanceAfter int64
				kind, description             string
				createdAt                     time.Time
			)

			if err := row.Scan(&id, &uid, &kind, &amount, &balanceAfter, &description, &createdAt); err != nil {
				return err
			}

			list = append(list, ledger.RestoreEntry(id, uid, ledger.Kind(kind), amount, balanceAfter, description, createdAt))

			return nil
		},
		`SELECT id, user_id, kind, amount, balance_after, description, created_at`+
			` FROM ledger_entries WHERE user_id = $1 ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

const notificationColumns = `id, user_id, category, title, message, link, is_read, created_at, delivered_at`

func scanNotification(row scanner) (*notifications.Notification, error) {
	var (
		n           notifications.Notification
		deliveredAt sql.NullTime
	)

	if err := row.Scan(&n.ID, &n.UserID, &n.Category, &n.Title, &n.Message, &n.Link,
		&n.IsRead, &n.CreatedAt, &deliveredAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	n.DeliveredAt = deliveredAt.Time

	return &n, nil
}

func (q *queries) CreateNotification(ctx context.Context, n *notifications.Notification) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO notifications (user_id, category, title, message, link, is_read, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		n.UserID, string(n.Category), n.Title, n.Message, n.Link, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}

		return err
	}

	n.ID = id

	return nil
}

func (q *queries) listNotifications(ctx context.Context, query string, args ...any) ([]*notifications.Notification, error) {
	var list []*notifications.Notification

	err := q.getMany(ctx,
		func() { list = make([]*notifications.Notification, 0) },
		func(row scanner) error {
			n, err := scanNotification(row)
			if err != nil {
				return err
			}

			list = append(list, n)

			return nil
		},
		query, args...,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) ListNotifications(ctx context.Context, userID int64) ([]*notifications.Notification, error) {
	return q.listNotifications(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
}

func (q *queries) ListUndeliveredNotifications(ctx context.Context, limit int) ([]*notifications.Notification, error) {
	return q.listNotifications(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE delivered_at IS NULL`+
			` ORDER BY created_at, id LIMIT NULLIF($1, 0)`,
		limit)
}

func (q *queries) MarkNotificationDelivered(ctx context.Context, id int64, at time.Time) error {
	return q.update(ctx, storage.ErrNotificationNotFound,
		`UPDATE notifications SET delivered_at = $1 WHERE id = $2`, at, id)
}
