package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

func createUser(t *testing.T, s *Storage, name, email string) *users.User {
	t.Helper()

	usr, err := users.CreateUser(name, email, "password", users.RoleUser)
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(context.Background(), usr))

	return usr
}

func TestStorage_CreateUser(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice@example.com")
	assert.Positive(t, alice.ID())

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{name: "same username other case", username: "Alice", email: ""},
		{name: "same email", username: "alice2", email: "ALICE@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := users.CreateUser(tt.username, tt.email, "password", users.RoleUser)
			require.NoError(t, err)

			err = s.CreateUser(ctx, usr)
			require.ErrorIs(t, err, storage.ErrUserAlreadyExists)
		})
	}

	got, err := s.GetUserByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, alice.ID(), got.ID())

	_, err = s.GetUser(ctx, 9999)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_WithinTxRollback(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	usr := createUser(t, s, "alice", "")
	errBoom := errors.New("boom")

	err := s.WithinTx(ctx, func(repo storage.Repo) error {
		u, err := repo.GetUserForUpdate(ctx, usr.ID())
		require.NoError(t, err)
		require.NoError(t, u.AdjustCoins(100))
		require.NoError(t, repo.UpdateUser(ctx, u))

		entry, err := ledger.NewEntry(u.ID(), ledger.KindDeposit, 100, 100, "deposit", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.CreateLedgerEntry(ctx, entry))

		bob, err := users.CreateUser("bob", "", "password", users.RoleUser)
		require.NoError(t, err)
		require.NoError(t, repo.CreateUser(ctx, bob))

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := s.GetUser(ctx, usr.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Coins())

	entries, err := s.ListLedgerEntries(ctx, usr.ID())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, storage.ErrUserNotFound)

	err = s.WithinTx(ctx, func(repo storage.Repo) error {
		u, err := repo.GetUserForUpdate(ctx, usr.ID())
		if err != nil {
			return err
		}

		if err := u.AdjustCoins(25); err != nil {
			return err
		}

		return repo.UpdateUser(ctx, u)
	})
	require.NoError(t, err)

	got, err = s.GetUser(ctx, usr.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Coins())
}

func TestStorage_WithinTxCancelledContext(t *testing.T) {
	s := NewStorage()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false

	err := s.WithinTx(ctx, func(storage.Repo) error {
		called = true

		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStorage_ListLedgerEntries(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	alice := createUser(t, s, "alice", "")
	bob := createUser(t, s, "bob", "")

	at := time.Now()

	for i, amount := range []int64{10, 20, 30} {
		entry, err := ledger.NewEntry(alice.ID(), ledger.KindDeposit, amount, amount, "deposit", at)
		require.NoError(t, err)
		require.NoError(t, s.CreateLedgerEntry(ctx, entry))

		if i == 0 {
			other, err := ledger.NewEntry(bob.ID(), ledger.KindDeposit, 5, 5, "deposit", at)
			require.NoError(t, err)
			require.NoError(t, s.CreateLedgerEntry(ctx, other))
		}
	}

	entries, err := s.ListLedgerEntries(ctx, alice.ID())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{30, 20, 10}, []int64{entries[0].Amount(), entries[1].Amount(), entries[2].Amount()})

	orphan, err := ledger.NewEntry(9999, ledger.KindDeposit, 1, 1, "deposit", at)
	require.NoError(t, err)
	require.ErrorIs(t, s.CreateLedgerEntry(ctx, orphan), storage.ErrUserNotFound)
}

func TestStorage_Notifications(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	usr := createUser(t, s, "alice", "")
	base := time.Now()

	ids := make([]int64, 0, 3)

	for i, title := range []string{"first", "second", "third"} {
		n, err := notifications.NewNotification(usr.ID(), notifications.CategorySystem, title, "", "")
		require.NoError(t, err)

		n.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.CreateNotification(ctx, n))

		ids = append(ids, n.ID)
	}

	list, err := s.ListNotifications(ctx, usr.ID())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)

	require.NoError(t, s.MarkNotificationDelivered(ctx, ids[0], base))

	pending, err := s.ListUndeliveredNotifications(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Title)

	require.ErrorIs(t, s.MarkNotificationDelivered(ctx, 9999, base), storage.ErrNotificationNotFound)
}

func TestStorage_Participants(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	usr := createUser(t, s, "alice", "")

	tr, err := tournaments.NewTournament(tournaments.Params{
		Title:           "Cup",
		MaxParticipants: 2,
		StartsAt:        time.Now().Add(time.Hour),
	}, 1)
	require.NoError(t, err)
	require.NoError(t, s.CreateTournament(ctx, tr))

	p, err := tournaments.NewParticipant(tr.ID, usr.ID(), "ace", "")
	require.NoError(t, err)
	require.NoError(t, s.CreateParticipant(ctx, p))

	dup, err := tournaments.NewParticipant(tr.ID, usr.ID(), "ace", "")
	require.NoError(t, err)
	require.ErrorIs(t, s.CreateParticipant(ctx, dup), storage.ErrParticipantAlreadyExists)

	list, err := s.ListParticipants(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	n, err := s.CountTournaments(ctx, tournaments.StatusUpcoming)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountTournaments(ctx, tournaments.StatusOngoing)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
