package chats

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/guard"
)

var (
	ErrMessageEmpty = errors.New("chat message is empty")
	ErrReplyEmpty   = errors.New("chat reply is empty")
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusResolved Status = "resolved"
)

func ParseStatus(status string) (Status, error) {
	switch Status(status) {
	case StatusNew, StatusRead, StatusReplied, StatusResolved:
		return Status(status), nil
	default:
		return "", fmt.Errorf("unknown chat status: %s", status)
	}
}

// Message is a support request from a user, answered from the back office.
type Message struct {
	ID         int64
	UserID     int64
	Subject    string
	Body       string
	Status     Status
	AdminReply string
	RepliedBy  int64
	RepliedAt  time.Time
	CreatedAt  time.Time
}

func NewMessage(userID int64, subject, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrMessageEmpty
	}

	return &Message{
		UserID:    userID,
		Subject:   strings.TrimSpace(subject),
		Body:      body,
		Status:    StatusNew,
		CreatedAt: time.Now(),
	}, nil
}

// Open marks a new message as read. It reports whether the status changed.
func (m *Message) Open() bool {
	if m.Status != StatusNew {
		return false
	}

	m.Status = StatusRead

	return true
}

func (m *Message) MarkRead() error {
	if m.Status == StatusResolved {
		return fmt.Errorf("chat %d: %w", m.ID, guard.ErrAlreadyProcessed)
	}

	m.Status = StatusRead

	return nil
}

func (m *Message) Reply(adminID int64, reply string, at time.Time) error {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ErrReplyEmpty
	}

	if m.Status == StatusResolved {
		return fmt.Errorf("chat %d: %w", m.ID, guard.ErrAlreadyProcessed)
	}

	m.AdminReply = reply
	m.Status = StatusReplied
	m.RepliedBy = adminID
	m.RepliedAt = at

	return nil
}

func (m *Message) Resolve() error {
	if m.Status == StatusResolved {
		return fmt.Errorf("chat %d: %w", m.ID, guard.ErrAlreadyProcessed)
	}

	m.Status = StatusResolved

	return nil
}

type Filter struct {
	Status Status
	Search string
}

type Stats struct {
	Total    int
	New      int
	Read     int
	Replied  int
	Resolved int
}
