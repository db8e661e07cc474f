package events

import (
	"context"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestAwaitConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("skips confirms of earlier timed out publishes", func(t *testing.T) {
		confirms := make(chan amqp.Confirmation, 3)
		confirms <- amqp.Confirmation{DeliveryTag: 1, Ack: true}
		confirms <- amqp.Confirmation{DeliveryTag: 2, Ack: false}
		confirms <- amqp.Confirmation{DeliveryTag: 3, Ack: true}

		assert.NoError(t, awaitConfirm(ctx, confirms, 3, time.Second))
		assert.Empty(t, confirms)
	})

	t.Run("stale ack does not stand in for a pending publish", func(t *testing.T) {
		confirms := make(chan amqp.Confirmation, 1)
		confirms <- amqp.Confirmation{DeliveryTag: 1, Ack: true}

		err := awaitConfirm(ctx, confirms, 2, 50*time.Millisecond)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("nack", func(t *testing.T) {
		confirms := make(chan amqp.Confirmation, 1)
		confirms <- amqp.Confirmation{DeliveryTag: 4, Ack: false}

		assert.ErrorIs(t, awaitConfirm(ctx, confirms, 4, time.Second), ErrNotConfirmed)
	})

	t.Run("closed channel", func(t *testing.T) {
		confirms := make(chan amqp.Confirmation)
		close(confirms)

		assert.ErrorIs(t, awaitConfirm(ctx, confirms, 1, time.Second), ErrNotConfirmed)
	})

	t.Run("context cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, awaitConfirm(cctx, make(chan amqp.Confirmation), 1, time.Second), context.Canceled)
	})
}
