package pgstorage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

var userRowColumns = []string{
	"id", "username", "email", "password_hash", "role", "coins", "tournaments_won", "tournaments_played", "created_at",
}

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return newStorage(db), mock
}

func TestStorage_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns generated id", func(t *testing.T) {
		s, mock := newMockStorage(t)

		usr, err := users.CreateUser("alice", "alice@example.com", "password", users.RoleUser)
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), "user", int64(0), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		require.NoError(t, s.CreateUser(ctx, usr))
		assert.Equal(t, int64(7), usr.ID())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		s, mock := newMockStorage(t)

		usr, err := users.CreateUser("alice", "", "password", users.RoleUser)
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err = s.CreateUser(ctx, usr)
		require.ErrorIs(t, err, storage.ErrUserAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_GetUser(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT ` + userColumns + ` FROM users WHERE id = $1`)

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStorage(t)

		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery(query).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(3, "bob", "bob@example.com", "hash", "admin", 250, 2, 5, created))

		usr, err := s.GetUser(ctx, 3)
		require.NoError(t, err)

		assert.Equal(t, "bob", usr.Username())
		assert.True(t, usr.Principal().IsAdmin())
		assert.Equal(t, int64(250), usr.Coins())
		assert.Equal(t, 2, usr.TournamentsWon())
		assert.Equal(t, 5, usr.TournamentsPlayed())
		assert.Equal(t, created, usr.CreatedAt())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectQuery(query).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := s.GetUser(ctx, 9)
		require.ErrorIs(t, err, storage.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_UpdateUserNotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	usr, err := users.NewUser(users.Record{ID: 4, Username: "ghost", Role: users.RoleUser})
	require.NoError(t, err)

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.UpdateUser(context.Background(), usr)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateLedgerEntryUnknownUser(t *testing.T) {
	s, mock := newMockStorage(t)

	entry, err := ledger.NewEntry(42, ledger.KindDeposit, 10, 10, "deposit", time.Now())
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO ledger_entries").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	err = s.CreateLedgerEntry(context.Background(), entry)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListLedgerEntries(t *testing.T) {
	s, mock := newMockStorage(t)

	at := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM ledger_entries WHERE user_id = $1 ORDER BY id DESC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "kind", "amount", "balance_after", "description", "created_at",
		}).
			AddRow(12, 1, "purchase", -30, 70, "Purchase: 60 UC x1", at).
			AddRow(11, 1, "deposit", 100, 100, "Payment approved - 100 coins", at))

	entries, err := s.ListLedgerEntries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ledger.KindPurchase, entries[0].Kind())
	assert.Equal(t, int64(-30), entries[0].Amount())
	assert.Equal(t, int64(70), entries[0].BalanceAfter())
	assert.Equal(t, int64(11), entries[1].ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_WithinTx(t *testing.T) {
	ctx := context.Background()
	lockQuery := regexp.QuoteMeta(`SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`)

	t.Run("commits the balance change and its entry", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(5, "alice", "", "hash", "user", 100, 0, 0, time.Now()))
		mock.ExpectExec("UPDATE users SET").
			WithArgs("", "hash", "user", int64(60), 0, 0, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO ledger_entries").
			WithArgs(int64(5), "withdrawal", int64(-40), int64(60), "Withdrawal request #1", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
		mock.ExpectCommit()

		mutator := wallet.NewMutator()

		var entry *ledger.Entry

		err := s.WithinTx(ctx, func(repo storage.Repo) error {
			var err error

			entry, err = mutator.Apply(ctx, repo, 5, -40, ledger.KindWithdrawal, "Withdrawal request #1")

			return err
		})
		require.NoError(t, err)
		assert.Equal(t, int64(21), entry.ID())
		assert.Equal(t, int64(60), entry.BalanceAfter())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insufficient funds", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(5, "alice", "", "hash", "user", 10, 0, 0, time.Now()))
		mock.ExpectRollback()

		mutator := wallet.NewMutator()

		err := s.WithinTx(ctx, func(repo storage.Repo) error {
			_, err := mutator.Apply(ctx, repo, 5, -40, ledger.KindPurchase, "Purchase")

			return err
		})
		require.ErrorIs(t, err, wallet.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithRetry(t *testing.T) {
	t.Run("non retryable error is returned at once", func(t *testing.T) {
		errBoom := errors.New("boom")
		calls := 0

		err := WithRetry(func() error {
			calls++

			return errBoom
		})
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, calls)
	})

	t.Run("connection exception is retried", func(t *testing.T) {
		calls := 0

		err := WithRetry(func() error {
			calls++
			if calls == 1 {
				return &pgconn.PgError{Code: pgerrcode.ConnectionFailure}
			}

			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestStorage_GetUserForUpdateLocksRow(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE id = \$1 FOR UPDATE$`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(5, "alice", "", "hash", "user", 100, 0, 0, time.Now()))
	mock.ExpectCommit()

	err := s.WithinTx(context.Background(), func(repo storage.Repo) error {
		usr, err := repo.GetUserForUpdate(context.Background(), 5)
		if err != nil {
			return err
		}

		assert.Equal(t, int64(100), usr.Coins())

		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_UpdateGame(t *testing.T) {
	game := &catalog.Game{ID: 3, Name: "Free Fire MAX", Slug: "free-fire-max", Icon: "gamepad", IsActive: true}

	t.Run("writes the slug", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE games SET name = $1, slug = $2`)).
			WithArgs("Free Fire MAX", "free-fire-max", "gamepad", "", 0, true, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateGame(context.Background(), game))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slug taken", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectExec("UPDATE games SET").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		require.ErrorIs(t, s.UpdateGame(context.Background(), game), storage.ErrGameAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_ListPaymentMethods(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM payment_methods WHERE NOT $1 OR is_active ORDER BY display_order, name`)).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "method_type", "account_number", "account_name", "instructions", "qr_code_url",
			"display_order", "is_active", "created_at",
		}).AddRow(4, "eSewa", "wallet", "9800000000", "GameVault", "", "", 1, true, time.Now()))

	list, err := s.ListPaymentMethods(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, catalog.MethodTypeWallet, list[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
