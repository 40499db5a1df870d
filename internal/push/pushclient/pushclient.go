// Package pushclient talks to the external push gateway that forwards
// notifications to user devices.
package pushclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/httpclient"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/go-resty/resty/v2"
)

var (
	ErrTooManyRequests    = errors.New("too many requests")
	ErrGatewayUnavailable = errors.New("push gateway unavailable")
	ErrRejected           = errors.New("push rejected")
)

// Message is the payload accepted by the gateway.
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Body      string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessage(n *notifications.Notification) Message {
	return Message{
		ID:        n.ID,
		UserID:    n.UserID,
		Category:  string(n.Category),
		Title:     n.Title,
		Body:      n.Message,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
}

type PushClient struct {
	log    *slog.Logger
	client *resty.Client
}

func New(opts ...Option) *PushClient {
	pushClient := &PushClient{
		log:    logger.NewNop(),
		client: httpclient.New(),
	}

	for _, opt := range opts {
		opt(pushClient)
	}

	return pushClient
}

type Option func(p *PushClient)

func WithLogger(logger *slog.Logger) Option {
	return func(p *PushClient) {
		p.log = logger
	}
}

func WithClient(client *resty.Client) Option {
	return func(p *PushClient) {
		p.client = client
	}
}

// Send posts one notification. The gateway deduplicates by notification id,
// so a repeated send after a lost acknowledgement is harmless.
func (p *PushClient) Send(ctx context.Context, n *notifications.Notification) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(newMessage(n)).
		Post("/api/push")
	if err != nil {
		return fmt.Errorf("client.R: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("status %d: %w", code, ErrGatewayUnavailable)
	default:
		p.log.Warn("Push rejected by gateway",
			slog.Int64("notification_id", n.ID),
			slog.Int("status", code),
			slog.String("body", resp.String()),
		)

		return fmt.Errorf("status %d: %w", code, ErrRejected)
	}
}
