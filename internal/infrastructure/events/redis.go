package events

import (
	"context"
	"errors"
	"time"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisPublisher pushes events onto a redis list; RedisConsumer pops from the other end.
type RedisPublisher struct {
	client *redis.Client
	queue  string
}

var _ repositories.EventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client, queue string) *RedisPublisher {
	return &RedisPublisher{client: client, queue: queue}
}

func (p *RedisPublisher) Publish(ctx context.Context, event entities.VideoEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	return p.client.LPush(ctx, p.queue, data).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

type RedisConsumer struct {
	client *redis.Client
	queue  string
	log    *zap.Logger
}

func NewRedisConsumer(client *redis.Client, queue string, log *zap.Logger) *RedisConsumer {
	return &RedisConsumer{client: client, queue: queue, log: log}
}

// Consume blocks until ctx is cancelled, handing every decodable event to handle.
func (c *RedisConsumer) Consume(ctx context.Context, handle func(entities.VideoEvent)) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		// kısa timeout, ctx iptalini kaçırmamak için
		val, err := c.client.BRPop(ctx, 2*time.Second, c.queue).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("BRPop failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		event, err := Decode([]byte(val[1]))
		if err != nil {
			c.log.Warn("dropping malformed event", zap.Error(err))
			continue
		}
		handle(event)
	}
}

func (c *RedisConsumer) Close() error {
	return c.client.Close()
}
