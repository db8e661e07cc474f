package queue

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type WorkerPool struct {
	JobChan chan Job
	wg      sync.WaitGroup
	ctx     context.Context    //graceful shutdown için
	cancel  context.CancelFunc //graceful shutdown için
}

func NewWorkerPool(workerCount int, tally *LikeTally, log *zap.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		JobChan: make(chan Job, 100),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:      i,
			JobChan: pool.JobChan,
			Wg:      &pool.wg,
			Tally:   tally,
			Log:     log,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	return pool
}

func (p *WorkerPool) AddJob(job Job) {
	p.JobChan <- job
}

// Shutdown drains the jobs already queued, then stops the workers.
// No AddJob may run concurrently with or after Shutdown.
func (p *WorkerPool) Shutdown() {
	close(p.JobChan)
	p.wg.Wait()
	p.cancel()
}
