// Package push runs the background dispatcher that forwards stored
// notifications to the push gateway.
package push

import (
	"context"
	"log/slog"
	"time"

	"github.com/andymarkow/gamevault/internal/httpclient"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/push/pushclient"
	"github.com/andymarkow/gamevault/internal/push/pushprocessor"
	"github.com/andymarkow/gamevault/internal/storage"
)

type Push struct {
	log          *slog.Logger
	pollInterval time.Duration
	processor    *pushprocessor.PushProcessor
}

type Config struct {
	logger       *slog.Logger
	pollInterval time.Duration
	gatewayURL   string
	poolSize     int
}

type Option func(c *Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.pollInterval = interval
	}
}

func WithGatewayURL(uri string) Option {
	return func(c *Config) {
		c.gatewayURL = uri
	}
}

func WithPoolSize(size int) Option {
	return func(c *Config) {
		c.poolSize = size
	}
}

func NewPush(store storage.NotificationStorage, opts ...Option) *Push {
	cfg := &Config{
		logger:       logger.NewNop(),
		pollInterval: 10 * time.Second,
		gatewayURL:   "http://localhost:8081",
		poolSize:     2,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	client := pushclient.New(
		pushclient.WithLogger(cfg.logger),
		pushclient.WithClient(httpclient.New(httpclient.WithBaseURL(cfg.gatewayURL))),
	)

	processor := pushprocessor.New(
		store,
		client,
		pushprocessor.WithLogger(cfg.logger),
		pushprocessor.WithPoolSize(cfg.poolSize),
	)

	return &Push{
		log:          cfg.logger.With(slog.String("module", "push")),
		pollInterval: cfg.pollInterval,
		processor:    processor,
	}
}

// Run polls for undelivered notifications until ctx is cancelled.
func (p *Push) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.log.Info("Start push daemon")

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Context done, stopping push daemon")

			return nil

		case <-ticker.C:
			if err := p.processor.Process(ctx); err != nil {
				p.log.Error("processor.Process", slog.Any("error", err))
			}
		}
	}
}
