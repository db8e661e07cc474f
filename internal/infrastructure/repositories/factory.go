package repositories

import (
	"context"
	"fmt"

	"video-svc/internal/domain/repositories"
	"video-svc/internal/infrastructure/db"
	"video-svc/internal/pkg/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewVideoRepository opens the backend named by VIDEO_REPOSITORY.
func NewVideoRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.VideoRepository, error) {
	log = log.With(zap.String("repository", cfg.Repository.Type))

	switch cfg.Repository.Type {
	case config.RepositoryMemory:
		log.Info("using in-memory video repository")
		return NewInMemoryVideoRepository(), nil

	case config.RepositoryPostgres:
		database, err := db.NewPostgresDB(cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres bağlantısı başarısız: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(database); err != nil {
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.Info("migrations applied")
		}
		return NewGormVideoRepository(database), nil

	case config.RepositorySQLite:
		return NewSQLiteVideoRepository(cfg.SQLite.Path)

	case config.RepositoryRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedisVideoRepository(client, cfg.Redis.Prefix), nil

	case config.RepositoryEtcd:
		return NewEtcdVideoRepository(cfg.Etcd.Endpoints, cfg.Etcd.Prefix, cfg.Etcd.DialTimeout)

	case config.RepositoryDynamoDB:
		return NewDynamoDBVideoRepository(ctx, cfg.DynamoDB.Table, cfg.DynamoDB.Region)
	}
	return nil, fmt.Errorf("unknown video repository %q", cfg.Repository.Type)
}
