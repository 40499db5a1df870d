package wallet_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/inmemory"
	"github.com/andymarkow/gamevault/internal/wallet"
)

func newUser(t *testing.T, store storage.Storage, name string) int64 {
	t.Helper()

	usr, err := users.CreateUser(name, "", "password", users.RoleUser)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), usr))

	return usr.ID()
}

func TestWallet_Adjust(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()
	w := wallet.New(store, wallet.NewMutator())
	userID := newUser(t, store, "alice")

	t.Run("sum of deltas", func(t *testing.T) {
		deltas := []struct {
			amount int64
			kind   ledger.Kind
		}{
			{500, ledger.KindDeposit},
			{-200, ledger.KindWithdrawal},
			{200, ledger.KindRefund},
			{75, ledger.KindTournamentWin},
			{-30, ledger.KindPurchase},
		}

		var sum int64

		for _, d := range deltas {
			entry, err := w.Adjust(ctx, userID, d.amount, d.kind, "test")
			require.NoError(t, err)

			sum += d.amount

			assert.Equal(t, d.amount, entry.Amount())
			assert.Equal(t, sum, entry.BalanceAfter())
		}

		balance, err := w.Balance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, sum, balance)

		history, err := w.History(ctx, userID)
		require.NoError(t, err)
		require.Len(t, history, len(deltas))

		// History is newest first.
		assert.Equal(t, balance, history[0].BalanceAfter())

		var total int64
		for _, e := range history {
			total += e.Amount()
		}

		assert.Equal(t, balance, total)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		before, err := w.Balance(ctx, userID)
		require.NoError(t, err)

		_, err = w.Adjust(ctx, userID, -(before + 1), ledger.KindWithdrawal, "too much")
		require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		after, err := w.Balance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		history, err := w.History(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, history, 5)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := w.Adjust(ctx, userID, 0, ledger.KindAdminAdjustment, "nothing")
		require.ErrorIs(t, err, wallet.ErrZeroAmount)
	})

	t.Run("amount sign contradicts kind", func(t *testing.T) {
		before, err := w.Balance(ctx, userID)
		require.NoError(t, err)

		for _, tt := range []struct {
			amount int64
			kind   ledger.Kind
		}{
			{1016, ledger.KindPurchase},
			{40, ledger.KindWithdrawal},
			{10, ledger.KindTournamentEntry},
			{-10, ledger.KindDeposit},
			{-10, ledger.KindRefund},
		} {
			_, err := w.Adjust(ctx, userID, tt.amount, tt.kind, "wrong sign")
			require.ErrorIs(t, err, ledger.ErrAmountSign, tt.kind)
		}

		after, err := w.Balance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := w.Adjust(ctx, 9999, 10, ledger.KindDeposit, "ghost")
		require.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestMutator_ApplyRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()
	mutator := wallet.NewMutator()
	w := wallet.New(store, mutator)
	userID := newUser(t, store, "bob")

	_, err := w.Adjust(ctx, userID, 100, ledger.KindDeposit, "seed")
	require.NoError(t, err)

	errAbort := errors.New("abort")

	err = store.WithinTx(ctx, func(repo storage.Repo) error {
		if _, err := mutator.Apply(ctx, repo, userID, 50, ledger.KindAdminAdjustment, "bonus"); err != nil {
			return err
		}

		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	balance, err := w.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	history, err := w.History(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestWallet_AdjustConcurrent(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()
	w := wallet.New(store, wallet.NewMutator())
	userID := newUser(t, store, "carol")

	const workers = 16

	const rounds = 25

	var wg sync.WaitGroup

	errs := make(chan error, workers*rounds)

	for i := range workers {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			for range rounds {
				if _, err := w.Adjust(ctx, userID, int64(i+1), ledger.KindDeposit, "concurrent"); err != nil {
					errs <- err
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var want int64
	for i := range workers {
		want += int64(i+1) * rounds
	}

	balance, err := w.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, want, balance)

	history, err := w.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, workers*rounds)

	// Newest first: each entry's balance minus its amount is the previous balance.
	for i, e := range history {
		prev := int64(0)
		if i+1 < len(history) {
			prev = history[i+1].BalanceAfter()
		}

		assert.Equal(t, prev+e.Amount(), e.BalanceAfter(), "entry %d", i)
	}

	assert.Equal(t, balance, history[0].BalanceAfter())
}
