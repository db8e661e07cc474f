package repositories

import (
	"context"

	"video-svc/internal/domain/entities"
)

type EventPublisher interface {
	Publish(ctx context.Context, event entities.VideoEvent) error
	Close() error
}
