package events

import (
	"context"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"
)

type NoopPublisher struct{}

var _ repositories.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, entities.VideoEvent) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }
