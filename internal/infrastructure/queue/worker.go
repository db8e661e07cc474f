package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Worker struct {
	ID      int        // worker id
	JobChan <-chan Job // iş kuyruğu
	Wg      *sync.WaitGroup
	Tally   *LikeTally
	Log     *zap.Logger
}

func (w *Worker) Start(ctx context.Context) { // worker başlatma fonksiyonu
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case job, ok := <-w.JobChan: //channeldan iş alınır
				if !ok {
					w.Log.Debug("job channel closed", zap.Int("worker", w.ID))
					return
				}
				w.processJob(job)
			case <-ctx.Done():
				w.Log.Debug("stopping due to context cancellation", zap.Int("worker", w.ID))
				return
			}
		}
	}()
}

func (w *Worker) processJob(job Job) {
	fields := []zap.Field{
		zap.Int("worker", w.ID),
		zap.String("event", string(job.Event.Type)),
		zap.Int64("video_id", job.Event.VideoID),
		zap.String("event_id", job.Event.ID.String()),
	}
	if job.Event.User != "" {
		fields = append(fields, zap.String("user", job.Event.User))
	}

	if err := w.Tally.Apply(job.Event); err != nil {
		w.Log.Warn("event rejected", append(fields, zap.Error(err))...)
		return
	}
	w.Log.Debug("event processed", append(fields, zap.Duration("lag", time.Since(job.Event.At)))...)
}
