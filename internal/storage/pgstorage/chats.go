package pgstorage

import (
	"context"
	"database/sql"

	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/dbmodels"
)

const chatColumns = `c.id, c.user_id, c.subject, c.message, c.status, c.admin_reply, c.replied_by,` +
	` c.replied_at, c.created_at`

func scanChat(row scanner) (*chats.Message, error) {
	var (
		m         chats.Message
		repliedBy sql.NullInt64
		repliedAt sql.NullTime
	)

	if err := row.Scan(&m.ID, &m.UserID, &m.Subject, &m.Body, &m.Status, &m.AdminReply,
		&repliedBy, &repliedAt, &m.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	m.RepliedBy = repliedBy.Int64
	m.RepliedAt = repliedAt.Time

	return &m, nil
}

func (q *queries) CreateChat(ctx context.Context, m *chats.Message) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO chat_messages (user_id, subject, message, status, created_at)`+
			` VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.UserID, m.Subject, m.Body, string(m.Status), m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}

		return err
	}

	m.ID = id

	return nil
}

func (q *queries) GetChatForUpdate(ctx context.Context, id int64) (*chats.Message, error) {
	var m *chats.Message

	err := q.getOne(ctx, storage.ErrChatNotFound, func(row scanner) error {
		var err error
		m, err = scanChat(row)

		return err
	}, `SELECT `+chatColumns+` FROM chat_messages c WHERE c.id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (q *queries) UpdateChat(ctx context.Context, m *chats.Message) error {
	return q.update(ctx, storage.ErrChatNotFound,
		`UPDATE chat_messages SET status = $1, admin_reply = $2, replied_by = $3, replied_at = $4 WHERE id = $5`,
		string(m.Status), m.AdminReply, dbmodels.NullInt64(m.RepliedBy), dbmodels.NullTime(m.RepliedAt), m.ID,
	)
}

func (q *queries) ListChats(ctx context.Context, filter chats.Filter) ([]*chats.Message, error) {
	var list []*chats.Message

	err := q.getMany(ctx,
		func() { list = make([]*chats.Message, 0) },
		func(row scanner) error {
			m, err := scanChat(row)
			if err != nil {
				return err
			}

			list = append(list, m)

			return nil
		},
		`SELECT `+chatColumns+` FROM chat_messages c JOIN users u ON u.id = c.user_id`+
			` WHERE ($1 = '' OR c.status = $1)`+
			` AND ($2 = '' OR c.subject ILIKE '%' || $2 || '%' OR c.message ILIKE '%' || $2 || '%'`+
			` OR u.username ILIKE '%' || $2 || '%')`+
			` ORDER BY c.created_at DESC, c.id DESC`,
		string(filter.Status), filter.Search,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) GetChatStats(ctx context.Context) (chats.Stats, error) {
	var stats chats.Stats

	err := q.getOne(ctx, storage.ErrChatNotFound, func(row scanner) error {
		return row.Scan(&stats.Total, &stats.New, &stats.Read, &stats.Replied, &stats.Resolved)
	},
		`SELECT count(*),`+
			` count(*) FILTER (WHERE status = 'new'),`+
			` count(*) FILTER (WHERE status = 'read'),`+
			` count(*) FILTER (WHERE status = 'replied'),`+
			` count(*) FILTER (WHERE status = 'resolved')`+
			` FROM chat_messages`,
	)
	if err != nil {
		return chats.Stats{}, err
	}

	return stats, nil
}
