package queue

import (
	"fmt"
	"testing"

	"video-svc/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWorkerPool_DrainsOnShutdown(t *testing.T) {
	tally := NewLikeTally()
	pool := NewWorkerPool(4, tally, zap.NewNop())

	const n = 50
	for i := 0; i < n; i++ {
		pool.AddJob(NewJob(entities.NewVideoEvent(entities.EventVideoLiked, 1, fmt.Sprintf("user-%d", i))))
	}
	pool.AddJob(NewJob(entities.VideoEvent{Type: "bogus", VideoID: 1}))
	pool.Shutdown()

	assert.Equal(t, int64(n), tally.Likes(1))
	assert.Equal(t, int64(n), tally.Snapshot(0).Processed)
}
