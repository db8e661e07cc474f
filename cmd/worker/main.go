package main //worker

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-svc/internal/domain/entities"
	"video-svc/internal/infrastructure/events"
	"video-svc/internal/infrastructure/queue"
	"video-svc/internal/pkg/config"
	"video-svc/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const topVideos = 5

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	consumer, err := events.NewConsumer(connectCtx, cfg, zl)
	cancel()
	if err != nil {
		zl.Fatal("event consumer could not start", zap.Error(err))
	}
	defer consumer.Close()

	tally := queue.NewLikeTally()
	pool := queue.NewWorkerPool(cfg.Worker.Count, tally, zl)

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Worker.StatsCron, func() { logSummary(zl, tally) }); err != nil {
		zl.Fatal("invalid WORKER_STATS_CRON", zap.Error(err))
	}
	c.Start()

	zl.Info("worker started",
		zap.String("transport", cfg.Events.Publisher),
		zap.String("queue", cfg.Events.Queue),
		zap.Int("workers", cfg.Worker.Count),
	)

	// Consume returns once ctx is cancelled; only then is it safe to close the pool
	if err := consumer.Consume(ctx, func(event entities.VideoEvent) {
		pool.AddJob(queue.NewJob(event))
	}); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
	}

	pool.Shutdown()
	<-c.Stop().Done()
	logSummary(zl, tally)
	zl.Info("worker stopped")
}

func logSummary(log *zap.Logger, tally *queue.LikeTally) {
	snap := tally.Snapshot(topVideos)
	log.Info("event tally",
		zap.Int64("processed", snap.Processed),
		zap.Int64("created", snap.Created),
		zap.Int64("data_uploads", snap.DataUploads),
		zap.Any("top_likes", snap.Top),
	)
}
