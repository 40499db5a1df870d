package inmemory

import (
	"context"
	"strings"

	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/storage"
)

func (r *repo) CreateChat(_ context.Context, m *chats.Message) error {
	defer r.lock()()

	if _, ok := r.st.users[m.UserID]; !ok {
		return storage.ErrUserNotFound
	}

	m.ID = r.st.nextID()
	r.st.chats[m.ID] = *m

	return nil
}

func (r *repo) GetChatForUpdate(_ context.Context, id int64) (*chats.Message, error) {
	defer r.lock()()

	m, ok := r.st.chats[id]
	if !ok {
		return nil, storage.ErrChatNotFound
	}

	return &m, nil
}

func (r *repo) UpdateChat(_ context.Context, m *chats.Message) error {
	defer r.lock()()

	if _, ok := r.st.chats[m.ID]; !ok {
		return storage.ErrChatNotFound
	}

	r.st.chats[m.ID] = *m

	return nil
}

func (r *repo) ListChats(_ context.Context, filter chats.Filter) ([]*chats.Message, error) {
	defer r.lock()()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	list := make([]*chats.Message, 0)

	for _, m := range r.st.chats {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}

		if search != "" {
			owner := r.st.users[m.UserID]

			if !strings.Contains(strings.ToLower(m.Subject), search) &&
				!strings.Contains(strings.ToLower(m.Body), search) &&
				!strings.Contains(strings.ToLower(owner.Username), search) {
				continue
			}
		}

		list = append(list, &m)
	}

	sortNewest(list, func(m *chats.Message) (int64, int64) { return m.CreatedAt.UnixNano(), m.ID })

	return list, nil
}

func (r *repo) GetChatStats(_ context.Context) (chats.Stats, error) {
	defer r.lock()()

	var stats chats.Stats

	for _, m := range r.st.chats {
		stats.Total++

		switch m.Status {
		case chats.StatusNew:
			stats.New++
		case chats.StatusRead:
			stats.Read++
		case chats.StatusReplied:
			stats.Replied++
		case chats.StatusResolved:
			stats.Resolved++
		}
	}

	return stats, nil
}
