package repositories

import (
	"context"
	"errors"

	"video-svc/internal/domain/entities"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrAlreadyLiked  = errors.New("user already liked the video")
	ErrNotLiked      = errors.New("user has not liked the video")
)

// VideoRepository is the keyed collection behind the store. Every backend must make
// AddLiker/RemoveLiker a single atomic check-and-set: of concurrent identical calls
// exactly one succeeds.
type VideoRepository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, video *entities.Video) error
	FindByID(ctx context.Context, id int64) (*entities.Video, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) ([]entities.Video, error)
	FindByName(ctx context.Context, title string) ([]entities.Video, error)
	FindByDurationLessThan(ctx context.Context, duration int64) ([]entities.Video, error)

	AddLiker(ctx context.Context, id int64, user string) error
	RemoveLiker(ctx context.Context, id int64, user string) error
	Likers(ctx context.Context, id int64) ([]string, error)

	Close() error
}
