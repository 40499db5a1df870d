package notifications

import (
	"errors"
	"time"
)

var (
	ErrTitleEmpty    = errors.New("notification title is empty")
	ErrUserIDInvalid = errors.New("notification user id is invalid")
)

type Category string

const (
	CategoryPayment    Category = "payment"
	CategoryOrder      Category = "order"
	CategoryTournament Category = "tournament"
	CategorySystem     Category = "system"
)

// Notification is a user-facing message about an admin decision.
type Notification struct {
	ID          int64
	UserID      int64
	Category    Category
	Title       string
	Message     string
	Link        string
	IsRead      bool
	CreatedAt   time.Time
	DeliveredAt time.Time
}

func NewNotification(userID int64, category Category, title, message, link string) (*Notification, error) {
	if userID <= 0 {
		return nil, ErrUserIDInvalid
	}

	if title == "" {
		return nil, ErrTitleEmpty
	}

	return &Notification{
		UserID:    userID,
		Category:  category,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now(),
	}, nil
}

func (n *Notification) IsDelivered() bool {
	return !n.DeliveredAt.IsZero()
}
