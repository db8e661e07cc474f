package events

import (
	"context"
	"fmt"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"
	"video-svc/internal/pkg/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Consumer is the worker side of a publisher transport.
type Consumer interface {
	Consume(ctx context.Context, handle func(entities.VideoEvent)) error
	Close() error
}

func newRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewPublisher(ctx context.Context, cfg *config.Config) (repositories.EventPublisher, error) {
	switch cfg.Events.Publisher {
	case config.PublisherNone:
		return NoopPublisher{}, nil
	case config.PublisherRedis:
		client, err := newRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisPublisher(client, cfg.Events.Queue), nil
	case config.PublisherAMQP:
		return NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)
	}
	return nil, fmt.Errorf("unknown event publisher %q", cfg.Events.Publisher)
}

func NewConsumer(ctx context.Context, cfg *config.Config, log *zap.Logger) (Consumer, error) {
	switch cfg.Events.Publisher {
	case config.PublisherRedis:
		client, err := newRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisConsumer(client, cfg.Events.Queue, log), nil
	case config.PublisherAMQP:
		return NewAMQPConsumer(cfg.Events.AMQPURL, cfg.Events.Queue, cfg.Worker.Count, log)
	}
	return nil, fmt.Errorf("EVENT_PUBLISHER %q has nothing to consume", cfg.Events.Publisher)
}
