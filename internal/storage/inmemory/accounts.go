package inmemory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

func (r *repo) CreateUser(_ context.Context, usr *users.User) error {
	defer r.lock()()

	rec := usr.Record()

	for _, u := range r.st.users {
		if strings.EqualFold(u.Username, rec.Username) || (rec.Email != "" && strings.EqualFold(u.Email, rec.Email)) {
			return storage.ErrUserAlreadyExists
		}
	}

	rec.ID = r.st.nextID()
	r.st.users[rec.ID] = rec

	usr.SetID(rec.ID)

	return nil
}

func (r *repo) getUser(id int64) (*users.User, error) {
	rec, ok := r.st.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	usr, err := users.NewUser(rec)
	if err != nil {
		return nil, fmt.Errorf("users.NewUser: %w", err)
	}

	return usr, nil
}

func (r *repo) GetUser(_ context.Context, id int64) (*users.User, error) {
	defer r.lock()()

	return r.getUser(id)
}

func (r *repo) GetUserForUpdate(_ context.Context, id int64) (*users.User, error) {
	defer r.lock()()

	return r.getUser(id)
}

func (r *repo) GetUserByUsername(_ context.Context, username string) (*users.User, error) {
	defer r.lock()()

	for id, u := range r.st.users {
		if strings.EqualFold(u.Username, username) {
			return r.getUser(id)
		}
	}

	return nil, storage.ErrUserNotFound
}

func (r *repo) UpdateUser(_ context.Context, usr *users.User) error {
	defer r.lock()()

	if _, ok := r.st.users[usr.ID()]; !ok {
		return storage.ErrUserNotFound
	}

	r.st.users[usr.ID()] = usr.Record()

	return nil
}

func (r *repo) ListUsers(_ context.Context, search string, limit int) ([]*users.User, error) {
	defer r.lock()()

	search = strings.ToLower(strings.TrimSpace(search))

	recs := make([]users.Record, 0, len(r.st.users))

	for _, u := range r.st.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}

		recs = append(recs, u)
	}

	sortNewest(recs, func(u users.Record) (int64, int64) { return u.CreatedAt.UnixNano(), u.ID })

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	list := make([]*users.User, 0, len(recs))

	for _, rec := range recs {
		usr, err := users.NewUser(rec)
		if err != nil {
			return nil, fmt.Errorf("users.NewUser: %w", err)
		}

		list = append(list, usr)
	}

	return list, nil
}

func (r *repo) CountUsers(_ context.Context, joinedSince time.Time) (int, error) {
	defer r.lock()()

	var count int

	for _, u := range r.st.users {
		if !u.CreatedAt.Before(joinedSince) {
			count++
		}
	}

	return count, nil
}

func (r *repo) CreateLedgerEntry(_ context.Context, entry *ledger.Entry) error {
	defer r.lock()()

	if _, ok := r.st.users[entry.UserID()]; !ok {
		return storage.ErrUserNotFound
	}

	entry.SetID(r.st.nextID())

	stored := ledger.RestoreEntry(entry.ID(), entry.UserID(), entry.Kind(), entry.Amount(),
		entry.BalanceAfter(), entry.Description(), entry.CreatedAt())

	r.st.ledger = append(r.st.ledger, stored)

	return nil
}

// ListLedgerEntries returns the user's entries, newest first.
func (r *repo) ListLedgerEntries(_ context.Context, userID int64) ([]*ledger.Entry, error) {
	defer r.lock()()

	list := make([]*ledger.Entry, 0)

	for i := len(r.st.ledger) - 1; i >= 0; i-- {
		if e := r.st.ledger[i]; e.UserID() == userID {
			list = append(list, e)
		}
	}

	return list, nil
}

func (r *repo) CreateNotification(_ context.Context, n *notifications.Notification) error {
	defer r.lock()()

	if _, ok := r.st.users[n.UserID]; !ok {
		return storage.ErrUserNotFound
	}

	n.ID = r.st.nextID()
	r.st.notifications[n.ID] = *n

	return nil
}

func (r *repo) ListNotifications(_ context.Context, userID int64) ([]*notifications.Notification, error) {
	defer r.lock()()

	list := make([]*notifications.Notification, 0)

	for _, n := range r.st.notifications {
		if n.UserID == userID {
			list = append(list, &n)
		}
	}

	sortNewest(list, func(n *notifications.Notification) (int64, int64) { return n.CreatedAt.UnixNano(), n.ID })

	return list, nil
}

// ListUndeliveredNotifications returns the oldest notifications not yet pushed.
func (r *repo) ListUndeliveredNotifications(_ context.Context, limit int) ([]*notifications.Notification, error) {
	defer r.lock()()

	list := make([]*notifications.Notification, 0)

	for _, n := range r.st.notifications {
		if !n.IsDelivered() {
			list = append(list, &n)
		}
	}

	sortNewest(list, func(n *notifications.Notification) (int64, int64) { return -n.CreatedAt.UnixNano(), -n.ID })

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

func (r *repo) MarkNotificationDelivered(_ context.Context, id int64, at time.Time) error {
	defer r.lock()()

	n, ok := r.st.notifications[id]
	if !ok {
		return storage.ErrNotificationNotFound
	}

	n.DeliveredAt = at
	r.st.notifications[id] = n

	return nil
}
