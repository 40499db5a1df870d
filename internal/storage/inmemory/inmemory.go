// Package inmemory is a process-local storage used when no database is configured.
package inmemory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/storage"
)

var _ storage.Storage = (*Storage)(nil)

// state holds every table by value, so a shallow clone is a full snapshot.
type state struct {
	seq           int64
	users         map[int64]users.Record
	ledger        []*ledger.Entry
	notifications map[int64]notifications.Notification
	payments      map[int64]payments.Record
	withdrawals   map[int64]withdrawals.Record
	orders        map[int64]orders.Record
	games         map[int64]catalog.Game
	items         map[int64]catalog.Item
	methods       map[int64]catalog.PaymentMethod
	tournaments   map[int64]tournaments.Tournament
	participants  map[int64]tournaments.Participant
	results       map[int64]tournaments.Result
	chats         map[int64]chats.Message
}

func newState() *state {
	return &state{
		users:         make(map[int64]users.Record),
		notifications: make(map[int64]notifications.Notification),
		payments:      make(map[int64]payments.Record),
		withdrawals:   make(map[int64]withdrawals.Record),
		orders:        make(map[int64]orders.Record),
		games:         make(map[int64]catalog.Game),
		items:         make(map[int64]catalog.Item),
		methods:       make(map[int64]catalog.PaymentMethod),
		tournaments:   make(map[int64]tournaments.Tournament),
		participants:  make(map[int64]tournaments.Participant),
		results:       make(map[int64]tournaments.Result),
		chats:         make(map[int64]chats.Message),
	}
}

func (s *state) clone() state {
	return state{
		seq:           s.seq,
		users:         maps.Clone(s.users),
		ledger:        slices.Clone(s.ledger),
		notifications: maps.Clone(s.notifications),
		payments:      maps.Clone(s.payments),
		withdrawals:   maps.Clone(s.withdrawals),
		orders:        maps.Clone(s.orders),
		games:         maps.Clone(s.games),
		items:         maps.Clone(s.items),
		methods:       maps.Clone(s.methods),
		tournaments:   maps.Clone(s.tournaments),
		participants:  maps.Clone(s.participants),
		results:       maps.Clone(s.results),
		chats:         maps.Clone(s.chats),
	}
}

// nextID returns a store-wide unique identifier.
func (s *state) nextID() int64 {
	s.seq++

	return s.seq
}

// repo implements storage.Repo over a state. lock guards a single call;
// inside a transaction it is a no-op because the store mutex is already held.
type repo struct {
	st   *state
	lock func() func()
}

// Storage serialises every call and every transaction with one mutex.
type Storage struct {
	*repo
	mu sync.Mutex
}

func NewStorage() *Storage {
	s := &Storage{}

	s.repo = &repo{
		st: newState(),
		lock: func() func() {
			s.mu.Lock()

			return s.mu.Unlock
		},
	}

	return s
}

// WithinTx runs fn with exclusive access to the store. On error every
// change made by fn is discarded.
func (s *Storage) WithinTx(ctx context.Context, fn func(repo storage.Repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	snapshot := s.st.clone()

	tx := &repo{
		st:   s.st,
		lock: func() func() { return func() {} },
	}

	if err := fn(tx); err != nil {
		*s.st = snapshot

		return err
	}

	return nil
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) Ping(_ context.Context) error {
	return nil
}

// sortNewest orders records by creation time descending, newest id first on ties.
func sortNewest[T any](list []T, key func(T) (int64, int64)) {
	slices.SortFunc(list, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)

		if at != bt {
			if at > bt {
				return -1
			}

			return 1
		}

		switch {
		case aid > bid:
			return -1
		case aid < bid:
			return 1
		default:
			return 0
		}
	})
}
