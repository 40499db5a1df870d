package storage

import (
	"context"
	"errors"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
)

var (
	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrUserNotFound             = errors.New("user not found")
	ErrPaymentNotFound          = errors.New("payment request not found")
	ErrWithdrawalNotFound       = errors.New("withdrawal request not found")
	ErrOrderNotFound            = errors.New("order not found")
	ErrGameNotFound             = errors.New("game not found")
	ErrGameAlreadyExists        = errors.New("game already exists")
	ErrItemNotFound             = errors.New("store item not found")
	ErrPaymentMethodNotFound    = errors.New("payment method not found")
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrParticipantAlreadyExists = errors.New("participant already exists")
	ErrResultNotFound           = errors.New("tournament result not found")
	ErrChatNotFound             = errors.New("chat message not found")
	ErrNotificationNotFound     = errors.New("notification not found")
)

type UserStorage interface {
	CreateUser(ctx context.Context, usr *users.User) error
	GetUser(ctx context.Context, id int64) (*users.User, error)
	GetUserByUsername(ctx context.Context, username string) (*users.User, error)
	// GetUserForUpdate locks the user row until the transaction ends.
	GetUserForUpdate(ctx context.Context, id int64) (*users.User, error)
	UpdateUser(ctx context.Context, usr *users.User) error
	ListUsers(ctx context.Context, search string, limit int) ([]*users.User, error)
	CountUsers(ctx context.Context, joinedSince time.Time) (int, error)
}

type LedgerStorage interface {
	CreateLedgerEntry(ctx context.Context, entry *ledger.Entry) error
	ListLedgerEntries(ctx context.Context, userID int64) ([]*ledger.Entry, error)
}

type NotificationStorage interface {
	CreateNotification(ctx context.Context, n *notifications.Notification) error
	ListNotifications(ctx context.Context, userID int64) ([]*notifications.Notification, error)
	ListUndeliveredNotifications(ctx context.Context, limit int) ([]*notifications.Notification, error)
	MarkNotificationDelivered(ctx context.Context, id int64, at time.Time) error
}

type PaymentStorage interface {
	CreatePayment(ctx context.Context, p *payments.Payment) error
	GetPayment(ctx context.Context, id int64) (*payments.Payment, error)
	GetPaymentForUpdate(ctx context.Context, id int64) (*payments.Payment, error)
	UpdatePayment(ctx context.Context, p *payments.Payment) error
	ListPayments(ctx context.Context, statuses ...payments.Status) ([]*payments.Payment, error)
	GetPaymentStats(ctx context.Context, since time.Time) (payments.Stats, error)
}

type WithdrawalStorage interface {
	CreateWithdrawal(ctx context.Context, w *withdrawals.Withdrawal) error
	GetWithdrawal(ctx context.Context, id int64) (*withdrawals.Withdrawal, error)
	GetWithdrawalForUpdate(ctx context.Context, id int64) (*withdrawals.Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, w *withdrawals.Withdrawal) error
	ListWithdrawals(ctx context.Context, filter withdrawals.Filter) ([]*withdrawals.Withdrawal, error)
	GetWithdrawalStats(ctx context.Context) (withdrawals.Stats, error)
}

type OrderStorage interface {
	CreateOrder(ctx context.Context, order *orders.Order) error
	GetOrder(ctx context.Context, id int64) (*orders.Order, error)
	GetOrderForUpdate(ctx context.Context, id int64) (*orders.Order, error)
	UpdateOrder(ctx context.Context, order *orders.Order) error
	ListOrders(ctx context.Context, statuses ...orders.OrderStatus) ([]*orders.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*orders.Order, error)
	CountOrders(ctx context.Context, status orders.OrderStatus) (int, error)
}

type CatalogStorage interface {
	CreateGame(ctx context.Context, game *catalog.Game) error
	GetGame(ctx context.Context, id int64) (*catalog.Game, error)
	UpdateGame(ctx context.Context, game *catalog.Game) error
	DeleteGame(ctx context.Context, id int64) error
	ListGames(ctx context.Context) ([]*catalog.Game, error)
	CreateItem(ctx context.Context, item *catalog.Item) error
	GetItem(ctx context.Context, id int64) (*catalog.Item, error)
	UpdateItem(ctx context.Context, item *catalog.Item) error
	ListItems(ctx context.Context, gameID int64) ([]*catalog.Item, error)
	CountItems(ctx context.Context, gameID int64) (int, error)
	CreatePaymentMethod(ctx context.Context, m *catalog.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, id int64) (*catalog.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, m *catalog.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id int64) error
	// ListPaymentMethods orders methods by display order, then name.
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]*catalog.PaymentMethod, error)
}

type TournamentStorage interface {
	CreateTournament(ctx context.Context, t *tournaments.Tournament) error
	GetTournament(ctx context.Context, id int64) (*tournaments.Tournament, error)
	GetTournamentForUpdate(ctx context.Context, id int64) (*tournaments.Tournament, error)
	UpdateTournament(ctx context.Context, t *tournaments.Tournament) error
	ListTournaments(ctx context.Context, statuses ...tournaments.Status) ([]*tournaments.Tournament, error)
	CountTournaments(ctx context.Context, statuses ...tournaments.Status) (int, error)

	CreateParticipant(ctx context.Context, p *tournaments.Participant) error
	GetParticipantForUpdate(ctx context.Context, id int64) (*tournaments.Participant, error)
	UpdateParticipant(ctx context.Context, p *tournaments.Participant) error
	ListParticipants(ctx context.Context, tournamentID int64) ([]*tournaments.Participant, error)

	CreateResult(ctx context.Context, r *tournaments.Result) error
	GetResult(ctx context.Context, id int64) (*tournaments.Result, error)
	UpdateResult(ctx context.Context, r *tournaments.Result) error
	// ListResults returns the claims of a tournament ordered by submission,
	// locking them when called inside a transaction.
	ListResults(ctx context.Context, tournamentID int64, statuses ...tournaments.ResultStatus) ([]*tournaments.Result, error)
}

type ChatStorage interface {
	CreateChat(ctx context.Context, m *chats.Message) error
	GetChatForUpdate(ctx context.Context, id int64) (*chats.Message, error)
	UpdateChat(ctx context.Context, m *chats.Message) error
	ListChats(ctx context.Context, filter chats.Filter) ([]*chats.Message, error)
	GetChatStats(ctx context.Context) (chats.Stats, error)
}

// Repo is the full set of reads and writes. It is served both by a Storage
// and by the transaction handed to WithinTx.
type Repo interface {
	UserStorage
	LedgerStorage
	NotificationStorage
	PaymentStorage
	WithdrawalStorage
	OrderStorage
	CatalogStorage
	TournamentStorage
	ChatStorage
}

type Storage interface {
	Repo
	// WithinTx runs fn in one atomic unit: every write made through the
	// given Repo is committed when fn returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(repo Repo) error) error
	Close() error
	Ping(ctx context.Context) error
}
