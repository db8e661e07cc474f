package usecases

import (
	"context"
	"errors"
	"io"
	"strings"

	"video-svc/internal/domain/dto"
	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/mapper"
	"video-svc/internal/domain/repositories"
	consts "video-svc/pkg/constants"
	apperrors "video-svc/pkg/errors"
	"video-svc/pkg/file"
	"video-svc/pkg/helper"

	"go.uber.org/zap"
)

type VideoService interface {
	FindAllVideos(ctx context.Context) ([]dto.VideoDTO, error)
	AddVideo(ctx context.Context, req *dto.CreateVideoRequestDTO) (*dto.VideoDTO, error)
	FindVideoByID(ctx context.Context, id int64) (*dto.VideoDTO, error)
	LikeVideo(ctx context.Context, id int64, user string) error
	UnlikeVideo(ctx context.Context, id int64, user string) error
	FindLikedBy(ctx context.Context, id int64) ([]string, error)
	FindByName(ctx context.Context, title string) ([]dto.VideoDTO, error)
	FindByDurationLessThan(ctx context.Context, duration int64) ([]dto.VideoDTO, error)

	SaveVideoData(ctx context.Context, id int64, r io.Reader, size int64, filename string) (*dto.VideoStatusDTO, error)
	GetVideoData(ctx context.Context, id int64) (io.ReadCloser, error)
}

type videoService struct {
	store     VideoStore
	repo      repositories.VideoRepository
	storage   repositories.DataStorage
	publisher repositories.EventPublisher
	log       *zap.Logger
}

func NewVideoService(
	store VideoStore,
	repo repositories.VideoRepository,
	storage repositories.DataStorage,
	publisher repositories.EventPublisher,
	log *zap.Logger,
) VideoService {
	return &videoService{
		store:     store,
		repo:      repo,
		storage:   storage,
		publisher: publisher,
		log:       log,
	}
}

func (s *videoService) FindAllVideos(ctx context.Context) ([]dto.VideoDTO, error) {
	videos, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.VideosToDTO(videos), nil
}

func (s *videoService) AddVideo(ctx context.Context, req *dto.CreateVideoRequestDTO) (*dto.VideoDTO, error) {
	if req == nil {
		return nil, apperrors.ErrInvalidRequest(errors.New("empty body"))
	}
	if req.Duration < 0 {
		return nil, apperrors.ErrInvalidRequest(errors.New("duration must not be negative"))
	}

	// id her zaman store tarafından atanır
	stored, err := s.store.Save(ctx, mapper.CreateRequestToVideo(req))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, entities.NewVideoEvent(entities.EventVideoCreated, stored.ID, ""))

	out := mapper.VideoToDTO(stored)
	return &out, nil
}

func (s *videoService) FindVideoByID(ctx context.Context, id int64) (*dto.VideoDTO, error) {
	v, ok, err := s.store.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFound(repositories.ErrVideoNotFound)
	}
	out := mapper.VideoToDTO(v)
	return &out, nil
}

func (s *videoService) LikeVideo(ctx context.Context, id int64, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := s.repo.AddLiker(ctx, id, user); err != nil {
		return mapRepoErr(err)
	}
	s.publish(ctx, entities.NewVideoEvent(entities.EventVideoLiked, id, user))
	return nil
}

func (s *videoService) UnlikeVideo(ctx context.Context, id int64, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := s.repo.RemoveLiker(ctx, id, user); err != nil {
		return mapRepoErr(err)
	}
	s.publish(ctx, entities.NewVideoEvent(entities.EventVideoUnliked, id, user))
	return nil
}

func (s *videoService) FindLikedBy(ctx context.Context, id int64) ([]string, error) {
	likers, err := s.repo.Likers(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return likers, nil
}

func (s *videoService) FindByName(ctx context.Context, title string) ([]dto.VideoDTO, error) {
	videos, err := s.repo.FindByName(ctx, title)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return mapper.VideosToDTO(videos), nil
}

func (s *videoService) FindByDurationLessThan(ctx context.Context, duration int64) ([]dto.VideoDTO, error) {
	videos, err := s.repo.FindByDurationLessThan(ctx, duration)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return mapper.VideosToDTO(videos), nil
}

func (s *videoService) SaveVideoData(ctx context.Context, id int64, r io.Reader, size int64, filename string) (*dto.VideoStatusDTO, error) {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFound(repositories.ErrVideoNotFound)
	}

	hr := file.NewHashReader(r)
	location, err := s.storage.Upload(ctx, file.MakeDataKey(id), hr, size, helper.GetMimeTypeFromExtension(filename))
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	s.log.Info("video data stored",
		zap.Int64("video_id", id),
		zap.String("location", location),
		zap.Int64("bytes", hr.BytesRead()),
		zap.String("sha256", hr.Sum()),
	)
	s.publish(ctx, entities.NewVideoEvent(entities.EventVideoDataUploaded, id, ""))

	return &dto.VideoStatusDTO{State: consts.VideoStateReady}, nil
}

func (s *videoService) GetVideoData(ctx context.Context, id int64) (io.ReadCloser, error) {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFound(repositories.ErrVideoNotFound)
	}

	rc, err := s.storage.Download(ctx, file.MakeDataKey(id))
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return rc, nil
}

// publish never fails the request; the stored state is already committed.
func (s *videoService) publish(ctx context.Context, event entities.VideoEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("event publish failed",
			zap.String("event", string(event.Type)),
			zap.Int64("video_id", event.VideoID),
			zap.Error(err),
		)
	}
}

func requireUser(user string) error {
	if strings.TrimSpace(user) == "" {
		return apperrors.ErrUnauthorized(errors.New("missing caller identity"))
	}
	return nil
}
