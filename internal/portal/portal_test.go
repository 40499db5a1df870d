package portal_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/inmemory"
	"github.com/andymarkow/gamevault/internal/wallet"
)

func newService(t *testing.T) (*portal.Service, *inmemory.Storage, *wallet.Wallet) {
	t.Helper()

	store := inmemory.NewStorage()
	w := wallet.New(store, wallet.NewMutator())

	return portal.New(store, w), store, w
}

func register(t *testing.T, svc *portal.Service, name string) int64 {
	t.Helper()

	usr, err := svc.Register(context.Background(), name, name+"@example.com", "password")
	require.NoError(t, err)

	return usr.ID()
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	userID := register(t, svc, "alice")

	usr, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)
	assert.Equal(t, userID, usr.ID())

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, portal.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob", "password")
	require.ErrorIs(t, err, portal.ErrInvalidCredentials)

	_, err = svc.Register(ctx, "ALICE", "", "password")
	require.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	list, err := svc.Notifications(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Welcome!", list[0].Title)
}

func TestService_RequestPayment(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	userID := register(t, svc, "alice")

	p, err := svc.RequestPayment(ctx, userID, portal.PaymentParams{
		Coins:  500,
		Amount: decimal.RequireFromString("49.90"),
		Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPending, p.Status())

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	_, err = svc.RequestPayment(ctx, userID, portal.PaymentParams{Coins: 0, Amount: decimal.NewFromInt(1), Method: "card"})
	require.ErrorIs(t, err, payments.ErrCoinsAmountInvalid)
}

func TestService_RequestWithdrawal(t *testing.T) {
	ctx := context.Background()
	svc, _, w := newService(t)
	userID := register(t, svc, "alice")

	_, err := w.Adjust(ctx, userID, 100, ledger.KindDeposit, "seed")
	require.NoError(t, err)

	_, err = svc.RequestWithdrawal(ctx, userID, portal.WithdrawalParams{
		Amount: 150, Method: "bank", AccountDetails: "IBAN",
	})
	require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	got, err := svc.RequestWithdrawal(ctx, userID, portal.WithdrawalParams{
		Amount: 60, Method: "bank", AccountDetails: "IBAN",
	})
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	history, err := svc.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ledger.KindWithdrawal, history[0].Kind())
	assert.Equal(t, int64(-60), history[0].Amount())
	assert.Equal(t, int64(40), history[0].BalanceAfter())
	assert.Contains(t, history[0].Description(), "#")
	assert.Positive(t, got.ID())
}

func TestService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	svc, store, w := newService(t)
	userID := register(t, svc, "alice")

	_, err := w.Adjust(ctx, userID, 300, ledger.KindDeposit, "seed")
	require.NoError(t, err)

	game, err := catalog.NewGame("PUBG Mobile", "", "", "", 0, true)
	require.NoError(t, err)
	require.NoError(t, store.CreateGame(ctx, game))

	item, err := catalog.NewItem(game.ID, "60 UC", 100)
	require.NoError(t, err)
	require.NoError(t, store.CreateItem(ctx, item))

	hidden, err := catalog.NewItem(game.ID, "600 UC", 50)
	require.NoError(t, err)

	hidden.Toggle()
	require.NoError(t, store.CreateItem(ctx, hidden))

	t.Run("inactive item", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, userID, portal.OrderParams{ItemID: hidden.ID, Quantity: 1, InGameID: "p1"})
		require.ErrorIs(t, err, catalog.ErrItemInactive)
	})

	t.Run("not enough coins", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, userID, portal.OrderParams{ItemID: item.ID, Quantity: 4, InGameID: "p1"})
		require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		list, err := svc.Orders(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("quantity overflowing the total", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, userID, portal.OrderParams{
			ItemID: item.ID, Quantity: 184467440737095506, InGameID: "p1",
		})
		require.ErrorIs(t, err, orders.ErrTotalOverflow)

		balance, err := svc.Balance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), balance)

		history, err := w.History(ctx, userID)
		require.NoError(t, err)
		require.Len(t, history, 1)
	})

	t.Run("paid order", func(t *testing.T) {
		order, err := svc.PlaceOrder(ctx, userID, portal.OrderParams{ItemID: item.ID, Quantity: 3, InGameID: "p1"})
		require.NoError(t, err)
		assert.Equal(t, int64(300), order.TotalPrice())
		assert.Regexp(t, `^ORD-[0-9A-F]{10}$`, order.Number())

		balance, err := svc.Balance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)

		list, err := svc.Orders(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, order.Number(), list[0].Number())
	})

	items, err := svc.Store(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func newTournament(t *testing.T, store *inmemory.Storage, fee int64, maxParticipants int) *tournaments.Tournament {
	t.Helper()

	tr, err := tournaments.NewTournament(tournaments.Params{
		Title:           "Weekend Clash",
		Game:            "PUBG Mobile",
		EntryFee:        fee,
		MaxParticipants: maxParticipants,
		StartsAt:        time.Now().Add(time.Hour),
	}, 1)
	require.NoError(t, err)
	require.NoError(t, store.CreateTournament(context.Background(), tr))

	return tr
}

func TestService_JoinTournament(t *testing.T) {
	ctx := context.Background()
	svc, store, w := newService(t)

	tr := newTournament(t, store, 30, 2)

	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	carol := register(t, svc, "carol")
	broke := register(t, svc, "broke")

	for _, id := range []int64{alice, bob, carol} {
		_, err := w.Adjust(ctx, id, 50, ledger.KindDeposit, "seed")
		require.NoError(t, err)
	}

	t.Run("not enough coins leaves no registration", func(t *testing.T) {
		_, err := svc.JoinTournament(ctx, broke, tr.ID, "broke", "")
		require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

		list, err := store.ListParticipants(ctx, tr.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("join charges the fee", func(t *testing.T) {
		p, err := svc.JoinTournament(ctx, alice, tr.ID, "ace", "1001")
		require.NoError(t, err)
		assert.Equal(t, alice, p.UserID)

		balance, err := svc.Balance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(20), balance)

		usr, err := svc.Profile(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, 1, usr.TournamentsPlayed())
	})

	t.Run("duplicate join", func(t *testing.T) {
		_, err := svc.JoinTournament(ctx, alice, tr.ID, "ace", "1001")
		require.ErrorIs(t, err, tournaments.ErrAlreadyJoined)

		balance, err := svc.Balance(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(20), balance)
	})

	t.Run("full tournament", func(t *testing.T) {
		_, err := svc.JoinTournament(ctx, bob, tr.ID, "bobby", "")
		require.NoError(t, err)

		_, err = svc.JoinTournament(ctx, carol, tr.ID, "cc", "")
		require.ErrorIs(t, err, tournaments.ErrFull)

		balance, err := svc.Balance(ctx, carol)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := svc.JoinTournament(ctx, carol, 9999, "cc", "")
		require.ErrorIs(t, err, storage.ErrTournamentNotFound)
	})
}

func TestService_SubmitResult(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		first   tournaments.Claim
		second  tournaments.Claim
		outcome tournaments.ResultStatus
	}{
		{name: "complementary claims are verified", first: tournaments.ClaimWon, second: tournaments.ClaimLost,
			outcome: tournaments.ResultVerified},
		{name: "both won is disputed", first: tournaments.ClaimWon, second: tournaments.ClaimWon,
			outcome: tournaments.ResultDisputed},
		{name: "both lost is disputed", first: tournaments.ClaimLost, second: tournaments.ClaimLost,
			outcome: tournaments.ResultDisputed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newService(t)
			tr := newTournament(t, store, 0, 2)

			alice := register(t, svc, "alice")
			bob := register(t, svc, "bob")

			for _, id := range []int64{alice, bob} {
				_, err := svc.JoinTournament(ctx, id, tr.ID, "nick", "")
				require.NoError(t, err)
			}

			first, err := svc.SubmitResult(ctx, alice, tr.ID, tt.first, "https://img.example.com/a.png")
			require.NoError(t, err)
			assert.Equal(t, tournaments.ResultPending, first.Status)

			second, err := svc.SubmitResult(ctx, bob, tr.ID, tt.second, "")
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, second.Status)

			claims, err := store.ListResults(ctx, tr.ID)
			require.NoError(t, err)
			require.Len(t, claims, 2)

			for _, c := range claims {
				assert.Equal(t, tt.outcome, c.Status)
			}
		})
	}

	t.Run("rejections", func(t *testing.T) {
		svc, store, _ := newService(t)
		tr := newTournament(t, store, 0, 2)

		alice := register(t, svc, "alice")
		outsider := register(t, svc, "outsider")

		_, err := svc.JoinTournament(ctx, alice, tr.ID, "nick", "")
		require.NoError(t, err)

		_, err = svc.SubmitResult(ctx, outsider, tr.ID, tournaments.ClaimWon, "")
		require.ErrorIs(t, err, tournaments.ErrNotParticipant)

		_, err = svc.SubmitResult(ctx, alice, tr.ID, "draw", "")
		require.ErrorIs(t, err, tournaments.ErrClaimInvalid)

		_, err = svc.SubmitResult(ctx, alice, tr.ID, tournaments.ClaimWon, "")
		require.NoError(t, err)

		_, err = svc.SubmitResult(ctx, alice, tr.ID, tournaments.ClaimLost, "")
		require.ErrorIs(t, err, tournaments.ErrClaimSubmitted)
	})
}

func TestService_SendMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	userID := register(t, svc, "alice")

	_, err := svc.SendMessage(ctx, userID, "Help", "   ")
	require.Error(t, err)

	m, err := svc.SendMessage(ctx, userID, " Help ", "Where is my order?")
	require.NoError(t, err)
	assert.Equal(t, "Help", m.Subject)
	assert.Positive(t, m.ID)
}
