package main

import (
	"context"
	"errors"
	"log"
	"net"
	"time"

	"video-svc/internal/delivery/http/handlers"
	"video-svc/internal/delivery/http/routers"
	"video-svc/internal/domain/repositories"
	"video-svc/internal/infrastructure/events"
	infra_repo "video-svc/internal/infrastructure/repositories"
	"video-svc/internal/infrastructure/storage"
	"video-svc/internal/pkg/config"
	"video-svc/internal/pkg/logger"
	"video-svc/internal/pkg/urls"
	"video-svc/internal/usecases"
	"video-svc/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	startupTimeout = 15 * time.Second
	staleTempAge   = 24 * time.Hour
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newServerAddress,
			newVideoRepository,
			newDataStorage,
			newEventPublisher,
			usecases.NewVideoStore,
			usecases.NewVideoService,
			handlers.NewVideoHandler,
			newApp,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(registerCronJobs, registerServer),
	).Run()
}

func newConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	if err := i18n.Load(cfg.I18n.Locale); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		_ = l.Sync()
		return nil
	}})
	return l, nil
}

func newServerAddress(cfg *config.Config) urls.ServerAddress {
	return urls.FromConfig(cfg.Public)
}

func newVideoRepository(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (repositories.VideoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	repo, err := infra_repo.NewVideoRepository(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return repo.Close()
	}})
	return repo, nil
}

func newDataStorage(cfg *config.Config) (repositories.DataStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	return storage.NewDataStorage(ctx, cfg.Storage)
}

func newEventPublisher(lc fx.Lifecycle, cfg *config.Config) (repositories.EventPublisher, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pub, err := events.NewPublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return pub.Close()
	}})
	return pub, nil
}

func newApp(cfg *config.Config, h *handlers.VideoHandler, log *zap.Logger) *fiber.App {
	return routers.NewApp(cfg, h, log)
}

// registerCronJobs logs the stored video count on SERVER_STATS_CRON and, for storages
// that stage temp files, sweeps stale ones on SERVER_CLEANUP_CRON.
func registerCronJobs(lc fx.Lifecycle, cfg *config.Config, store usecases.VideoStore, data repositories.DataStorage, log *zap.Logger) error {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(cfg.Server.StatsCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		n, err := store.Count(ctx)
		if err != nil {
			log.Warn("video count failed", zap.Error(err))
			return
		}
		log.Info("video stats", zap.Int64("videos", n), zap.String("repository", cfg.Repository.Type))
	})
	if err != nil {
		return err
	}

	if sweeper, ok := data.(usecases.TempSweeper); ok {
		cleanupUC := usecases.NewCleanupService(sweeper, log)
		_, err = c.AddFunc(cfg.Server.CleanupCron, func() {
			if err := cleanupUC.CleanupOldTempFiles(staleTempAge); err != nil {
				log.Warn("error cleaning up old temp files", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start() // cron job'u başlatır
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

func registerServer(lc fx.Lifecycle, cfg *config.Config, app *fiber.App, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// bind synchronously so a busy port fails startup
			ln, err := net.Listen("tcp", cfg.ListenAddr())
			if err != nil {
				return err
			}
			log.Info("server starting", zap.String("addr", cfg.ListenAddr()))
			go func() {
				if err := app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutdown signal received, stopping server")
			return app.ShutdownWithContext(ctx)
		},
	})
}
