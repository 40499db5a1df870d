package pushprocessor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/push/pushclient"
	"github.com/andymarkow/gamevault/internal/storage"
)

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, n *notifications.Notification) error
}

type PushProcessor struct {
	log       *slog.Logger
	storage   storage.NotificationStorage
	sender    Sender
	poolSize  int
	batchSize int
}

type Config struct {
	logger    *slog.Logger
	poolSize  int
	batchSize int
}

type Option func(c *Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func WithPoolSize(size int) Option {
	return func(c *Config) {
		c.poolSize = size
	}
}

func WithBatchSize(size int) Option {
	return func(c *Config) {
		c.batchSize = size
	}
}

func New(store storage.NotificationStorage, sender Sender, opts ...Option) *PushProcessor {
	cfg := &Config{
		logger:    logger.NewNop(),
		poolSize:  2,
		batchSize: 100,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.poolSize < 1 {
		cfg.poolSize = 1
	}

	return &PushProcessor{
		log:       cfg.logger.With(slog.String("module", "push_processor")),
		storage:   store,
		sender:    sender,
		poolSize:  cfg.poolSize,
		batchSize: cfg.batchSize,
	}
}

// Process pushes one batch of undelivered notifications. A notification is
// marked delivered once the gateway accepted or permanently rejected it;
// throttling and gateway failures are retried on the next run.
func (p *PushProcessor) Process(ctx context.Context) error {
	pending, err := p.storage.ListUndeliveredNotifications(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("storage.ListUndeliveredNotifications: %w", err)
	}

	if len(pending) == 0 {
		p.log.Debug("No notifications to push")

		return nil
	}

	p.log.Info("Start notifications push", slog.Int("count", len(pending)))

	p.pushPool(ctx, notificationGenerator(ctx, pending))

	return nil
}

func notificationGenerator(ctx context.Context, list []*notifications.Notification) chan *notifications.Notification {
	ch := make(chan *notifications.Notification)

	go func() {
		defer close(ch)

		for _, n := range list {
			select {
			case <-ctx.Done():
				return
			case ch <- n:
			}
		}
	}()

	return ch
}

func (p *PushProcessor) pushPool(ctx context.Context, ch chan *notifications.Notification) {
	wg := &sync.WaitGroup{}

	for w := 1; w <= p.poolSize; w++ {
		wg.Add(1)
		go p.pushWorker(ctx, wg, ch)
	}

	wg.Wait()
}

func (p *PushProcessor) pushWorker(ctx context.Context, wg *sync.WaitGroup, ch chan *notifications.Notification) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case n, ok := <-ch:
			if !ok {
				return
			}

			if err := p.sender.Send(ctx, n); err != nil {
				p.log.Error("sender.Send", slog.Int64("notification_id", n.ID), slog.Any("error", err))

				if !errors.Is(err, pushclient.ErrRejected) {
					continue
				}
			}

			if err := p.storage.MarkNotificationDelivered(ctx, n.ID, time.Now()); err != nil {
				p.log.Error("storage.MarkNotificationDelivered",
					slog.Int64("notification_id", n.ID), slog.Any("error", err))

				continue
			}

			p.log.Debug("Notification pushed",
				slog.Int64("notification_id", n.ID),
				slog.Int64("user_id", n.UserID),
			)
		}
	}
}
