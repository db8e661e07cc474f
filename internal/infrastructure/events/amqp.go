package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	confirmTimeout = 5 * time.Second
	confirmBuffer  = 64
)

var ErrNotConfirmed = errors.New("amqp publish was not confirmed by the broker")

type AMQPPublisher struct {
	mu            sync.Mutex
	conn          *amqp.Connection
	channel       *amqp.Channel
	queue         string
	notifyConfirm chan amqp.Confirmation
	seq           uint64 // delivery tag of the last publish on channel
}

var _ repositories.EventPublisher = (*AMQPPublisher)(nil)

func dialQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitMQ bağlantısı başarısız: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitMQ kanalı açılamadı: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("kuyruk tanımlanamadı: %w", err)
	}
	return conn, ch, nil
}

// NewAMQPPublisher opens a confirm-mode channel on a durable queue.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("confirm mode açılamadı: %w", err)
	}
	return &AMQPPublisher{
		conn:          conn,
		channel:       ch,
		queue:         queue,
		notifyConfirm: ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer)),
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event entities.VideoEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.At,
		Body:         data,
	})
	if err != nil {
		return err
	}
	// broker numbers publishes on a confirm channel 1, 2, 3...
	p.seq++

	return awaitConfirm(ctx, p.notifyConfirm, p.seq, confirmTimeout)
}

// awaitConfirm waits for the confirmation carrying tag. Older tags belong to publishes
// that already gave up waiting and are discarded.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case confirm, ok := <-confirms:
			if !ok {
				return ErrNotConfirmed
			}
			if confirm.DeliveryTag < tag {
				continue
			}
			if confirm.DeliveryTag != tag || !confirm.Ack {
				return ErrNotConfirmed
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrNotConfirmed
		}
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channel.Close()
	return p.conn.Close()
}

type AMQPConsumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

func NewAMQPConsumer(url, queue string, prefetch int, log *zap.Logger) (*AMQPConsumer, error) {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPConsumer{conn: conn, channel: ch, queue: queue, log: log}, nil
}

// Consume acks each delivery after handle returns; malformed messages are rejected without requeue.
func (c *AMQPConsumer) Consume(ctx context.Context, handle func(entities.VideoEvent)) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("rabbitMQ bağlantısı koptu")
			}
			event, err := Decode(msg.Body)
			if err != nil {
				c.log.Warn("dropping malformed event", zap.Error(err))
				msg.Reject(false)
				continue
			}
			handle(event)
			msg.Ack(false)
		}
	}
}

func (c *AMQPConsumer) Close() error {
	c.channel.Close()
	return c.conn.Close()
}
