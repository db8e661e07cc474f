package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVideoRepository stores videos in postgres. The schema (videos, video_likers,
// videos_id_seq) comes from the goose migrations.
type GormVideoRepository struct {
	db *gorm.DB
}

var _ repositories.VideoRepository = (*GormVideoRepository)(nil)

func NewGormVideoRepository(db *gorm.DB) *GormVideoRepository {
	return &GormVideoRepository{db: db}
}

func (r *GormVideoRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('videos_id_seq')").Scan(&id).Error; err != nil {
		return 0, fmt.Errorf("next video id: %w", err)
	}
	return id, nil
}

func (r *GormVideoRepository) Save(ctx context.Context, video *entities.Video) error {
	now := time.Now()
	entity := entities.Video{
		ID:        video.ID,
		Title:     video.Title,
		Duration:  video.Duration,
		DataURL:   video.DataURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "duration", "data_url", "updated_at"}),
	}).Create(&entity).Error
	if err != nil {
		return fmt.Errorf("video upsert failed: %w", err)
	}
	// explicit ids must never be handed out again by nextval
	return r.db.WithContext(ctx).
		Exec("SELECT setval('videos_id_seq', GREATEST(?, (SELECT last_value FROM videos_id_seq)))", video.ID).
		Error
}

func (r *GormVideoRepository) FindByID(ctx context.Context, id int64) (*entities.Video, error) {
	var entity entities.Video
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrVideoNotFound
		}
		return nil, err
	}
	likers, err := r.likers(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	entity.Likers = likers
	return &entity, nil
}

func (r *GormVideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, r.db, id)
}

func (r *GormVideoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Video{}).Count(&n).Error
	return n, err
}

func (r *GormVideoRepository) FindAll(ctx context.Context) ([]entities.Video, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *GormVideoRepository) FindByName(ctx context.Context, title string) ([]entities.Video, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("title = ?", title))
}

func (r *GormVideoRepository) FindByDurationLessThan(ctx context.Context, duration int64) ([]entities.Video, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("duration < ?", duration))
}

func (r *GormVideoRepository) AddLiker(ctx context.Context, id int64, user string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := r.exists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return repositories.ErrVideoNotFound
		}
		// primary key (video_id, username) karar verir: ikinci insert hiçbir satır eklemez
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entities.VideoLiker{VideoID: id, Username: user, CreatedAt: time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrAlreadyLiked
		}
		return nil
	})
}

func (r *GormVideoRepository) RemoveLiker(ctx context.Context, id int64, user string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := r.exists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return repositories.ErrVideoNotFound
		}
		res := tx.Where("video_id = ? AND username = ?", id, user).Delete(&entities.VideoLiker{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotLiked
		}
		return nil
	})
}

func (r *GormVideoRepository) Likers(ctx context.Context, id int64) ([]string, error) {
	ok, err := r.exists(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrVideoNotFound
	}
	return r.likers(ctx, r.db, id)
}

func (r *GormVideoRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *GormVideoRepository) exists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormVideoRepository) likers(ctx context.Context, db *gorm.DB, id int64) ([]string, error) {
	likers := make([]string, 0)
	err := db.WithContext(ctx).Model(&entities.VideoLiker{}).
		Where("video_id = ?", id).
		Order("username").
		Pluck("username", &likers).Error
	return likers, err
}

func (r *GormVideoRepository) find(ctx context.Context, q *gorm.DB) ([]entities.Video, error) {
	var videos []entities.Video
	if err := q.Order("id").Find(&videos).Error; err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return []entities.Video{}, nil
	}

	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	var rows []entities.VideoLiker
	if err := r.db.WithContext(ctx).Where("video_id IN ?", ids).Order("username").Find(&rows).Error; err != nil {
		return nil, err
	}
	byVideo := make(map[int64][]string, len(videos))
	for _, row := range rows {
		byVideo[row.VideoID] = append(byVideo[row.VideoID], row.Username)
	}
	for i := range videos {
		videos[i].Likers = byVideo[videos[i].ID]
		if videos[i].Likers == nil {
			videos[i].Likers = []string{}
		}
	}
	return videos, nil
}
