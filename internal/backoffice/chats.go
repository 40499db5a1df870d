package backoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

const chatLink = "/chat/"

func (s *Service) ListChats(ctx context.Context, actor users.Principal, filter chats.Filter) ([]*chats.Message, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListChats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store.ListChats: %w", err)
	}

	return list, nil
}

func (s *Service) ChatStats(ctx context.Context, actor users.Principal) (chats.Stats, error) {
	if err := authorize(actor); err != nil {
		return chats.Stats{}, err
	}

	stats, err := s.store.GetChatStats(ctx)
	if err != nil {
		return chats.Stats{}, fmt.Errorf("store.GetChatStats: %w", err)
	}

	return stats, nil
}

func (s *Service) updateChat(
	ctx context.Context, chatID int64, change func(m *chats.Message) (bool, error),
) (*chats.Message, error) {
	var message *chats.Message

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		m, err := repo.GetChatForUpdate(ctx, chatID)
		if err != nil {
			return fmt.Errorf("repo.GetChatForUpdate: %w", err)
		}

		changed, err := change(m)
		if err != nil {
			return err
		}

		if changed {
			if err := repo.UpdateChat(ctx, m); err != nil {
				return fmt.Errorf("repo.UpdateChat: %w", err)
			}
		}

		message = m

		return nil
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

// OpenChat returns a message for reading; a new message becomes read.
func (s *Service) OpenChat(ctx context.Context, actor users.Principal, chatID int64) (*chats.Message, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	return s.updateChat(ctx, chatID, func(m *chats.Message) (bool, error) {
		return m.Open(), nil
	})
}

func (s *Service) ReplyChat(
	ctx context.Context, actor users.Principal, chatID int64, reply string,
) (*chats.Message, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	m, err := s.updateChat(ctx, chatID, func(m *chats.Message) (bool, error) {
		return true, m.Reply(actor.ID, reply, s.now()) //nolint:wrapcheck
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, m.UserID, notifications.CategorySystem, "Reply to Your Message",
		fmt.Sprintf("Admin replied to your message: %s", m.Subject), chatLink)

	s.log.Info("Chat replied", slog.Int64("chat_id", m.ID), slog.Int64("admin_id", actor.ID))

	return m, nil
}

func (s *Service) MarkChatRead(ctx context.Context, actor users.Principal, chatID int64) (*chats.Message, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	return s.updateChat(ctx, chatID, func(m *chats.Message) (bool, error) {
		return true, m.MarkRead() //nolint:wrapcheck
	})
}

func (s *Service) ResolveChat(ctx context.Context, actor users.Principal, chatID int64) (*chats.Message, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	return s.updateChat(ctx, chatID, func(m *chats.Message) (bool, error) {
		return true, m.Resolve() //nolint:wrapcheck
	})
}
