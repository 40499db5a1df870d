package pgstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// queries implements storage.Repo on top of a pool or a transaction.
type queries struct {
	db    dbtx
	retry func(operation func() error) error
}

// insert runs an INSERT ... RETURNING id statement. A unique violation is
// reported as conflict.
func (q *queries) insert(ctx context.Context, conflict error, query string, args ...any) (int64, error) {
	var id int64

	err := q.retry(func() error {
		if err := q.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if conflict != nil && isUniqueViolation(err) {
				return conflict
			}

			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// update runs a statement that must touch exactly one row.
func (q *queries) update(ctx context.Context, notFound error, query string, args ...any) error {
	return q.retry(func() error {
		res, err := q.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("db.ExecContext: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("res.RowsAffected: %w", err)
		}

		if n == 0 {
			return notFound
		}

		return nil
	})
}

// getOne scans a single row, mapping sql.ErrNoRows to notFound.
func (q *queries) getOne(ctx context.Context, notFound error, scan func(scanner) error, query string, args ...any) error {
	return q.retry(func() error {
		if err := scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound
			}

			return fmt.Errorf("row.Scan: %w", err)
		}

		return nil
	})
}

// getMany calls scan for every returned row. reset is called before each
// attempt so that a retried query does not duplicate results.
func (q *queries) getMany(ctx context.Context, reset func(), scan func(scanner) error, query string, args ...any) error {
	return q.retry(func() error {
		reset()

		rows, err := q.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("db.QueryContext: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return fmt.Errorf("rows.Scan: %w", err)
			}
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows.Err: %w", err)
		}

		return nil
	})
}

func (q *queries) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int

	err := q.getOne(ctx, sql.ErrNoRows, func(row scanner) error { return row.Scan(&n) }, query, args...)
	if err != nil {
		return 0, err
	}

	return n, nil
}
