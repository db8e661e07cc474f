package queue

import (
	"time"

	"video-svc/internal/domain/entities"
)

type Job struct {
	Event      entities.VideoEvent
	ReceivedAt time.Time
}

func NewJob(event entities.VideoEvent) Job {
	return Job{Event: event, ReceivedAt: time.Now()}
}
