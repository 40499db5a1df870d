package pushprocessor_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/push/pushclient"
	"github.com/andymarkow/gamevault/internal/push/pushprocessor"
	"github.com/andymarkow/gamevault/internal/storage/inmemory"
)

type fakeSender struct {
	mu       sync.Mutex
	failOn   map[string]bool
	rejectOn map[string]bool
	sent     []string
	attempts int
}

func (f *fakeSender) Send(_ context.Context, n *notifications.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++

	if f.failOn[n.Title] {
		return errors.New("gateway down")
	}

	if f.rejectOn[n.Title] {
		return fmt.Errorf("status 400: %w", pushclient.ErrRejected)
	}

	f.sent = append(f.sent, n.Title)

	return nil
}

func seed(t *testing.T, store *inmemory.Storage, titles ...string) {
	t.Helper()

	ctx := context.Background()

	usr, err := users.CreateUser("alice", "", "password", users.RoleUser)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, usr))

	for _, title := range titles {
		n, err := notifications.NewNotification(usr.ID(), notifications.CategorySystem, title, "", "")
		require.NoError(t, err)
		require.NoError(t, store.CreateNotification(ctx, n))
	}
}

func TestPushProcessor_Process(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()

	seed(t, store, "one", "two", "three")

	sender := &fakeSender{failOn: map[string]bool{"two": true}}
	processor := pushprocessor.New(store, sender, pushprocessor.WithPoolSize(3))

	require.NoError(t, processor.Process(ctx))
	assert.ElementsMatch(t, []string{"one", "three"}, sender.sent)

	pending, err := store.ListUndeliveredNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "two", pending[0].Title)

	sender.failOn = nil

	require.NoError(t, processor.Process(ctx))
	assert.ElementsMatch(t, []string{"one", "three", "two"}, sender.sent)

	pending, err = store.ListUndeliveredNotifications(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, processor.Process(ctx))
	assert.Len(t, sender.sent, 3)
}

func TestPushProcessor_ProcessRejected(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()

	seed(t, store, "bad", "good")

	sender := &fakeSender{rejectOn: map[string]bool{"bad": true}}
	processor := pushprocessor.New(store, sender, pushprocessor.WithBatchSize(1))

	require.NoError(t, processor.Process(ctx))
	assert.Empty(t, sender.sent)

	// The rejected notification no longer blocks the head of the queue.
	require.NoError(t, processor.Process(ctx))
	assert.Equal(t, []string{"good"}, sender.sent)

	pending, err := store.ListUndeliveredNotifications(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, processor.Process(ctx))
	assert.Equal(t, 2, sender.attempts)
}
