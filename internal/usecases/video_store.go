package usecases

import (
	"context"
	"errors"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"
	"video-svc/internal/pkg/urls"
	apperrors "video-svc/pkg/errors"
)

// VideoStore assigns identities and dataUrls on top of a VideoRepository.
// SaveAll, FindAllByID, Delete and DeleteAll are not implemented and panic with
// apperrors.ErrUnsupported.
type VideoStore interface {
	Save(ctx context.Context, video *entities.Video) (*entities.Video, error)
	FindOne(ctx context.Context, id int64) (*entities.Video, bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) ([]entities.Video, error)

	SaveAll(ctx context.Context, videos []entities.Video) ([]entities.Video, error)
	FindAllByID(ctx context.Context, ids []int64) ([]entities.Video, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

type videoStore struct {
	repo    repositories.VideoRepository
	address urls.ServerAddress
}

func NewVideoStore(repo repositories.VideoRepository, address urls.ServerAddress) VideoStore {
	return &videoStore{repo: repo, address: address}
}

// Save assigns an id when video.ID is 0 and always re-derives DataURL. A non-zero id
// must belong to a stored video; callers never pick ids. Likers are left untouched.
func (s *videoStore) Save(ctx context.Context, video *entities.Video) (*entities.Video, error) {
	if video == nil {
		return nil, apperrors.ErrInvalidRequest(errors.New("nil video"))
	}

	if video.ID == 0 {
		id, err := s.repo.NextID(ctx)
		if err != nil {
			return nil, apperrors.ErrInternal(err)
		}
		video.ID = id
	} else {
		ok, err := s.repo.Exists(ctx, video.ID)
		if err != nil {
			return nil, apperrors.ErrInternal(err)
		}
		if !ok {
			return nil, apperrors.ErrNotFound(repositories.ErrVideoNotFound)
		}
	}
	video.DataURL = s.address.DataURL(video.ID)

	if err := s.repo.Save(ctx, video); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	stored, err := s.repo.FindByID(ctx, video.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return stored, nil
}

// FindOne reports a missing id through the bool, not the error.
func (s *videoStore) FindOne(ctx context.Context, id int64) (*entities.Video, bool, error) {
	v, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrVideoNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.ErrInternal(err)
	}
	return v, true, nil
}

func (s *videoStore) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, apperrors.ErrInternal(err)
	}
	return ok, nil
}

func (s *videoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.ErrInternal(err)
	}
	return n, nil
}

func (s *videoStore) FindAll(ctx context.Context) ([]entities.Video, error) {
	videos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return videos, nil
}

func (s *videoStore) SaveAll(context.Context, []entities.Video) ([]entities.Video, error) {
	panic(apperrors.ErrUnsupported)
}

func (s *videoStore) FindAllByID(context.Context, []int64) ([]entities.Video, error) {
	panic(apperrors.ErrUnsupported)
}

func (s *videoStore) Delete(context.Context, int64) error {
	panic(apperrors.ErrUnsupported)
}

func (s *videoStore) DeleteAll(context.Context) error {
	panic(apperrors.ErrUnsupported)
}

// mapRepoErr turns repository sentinels into coded errors for the HTTP layer.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrVideoNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrAlreadyLiked):
		return apperrors.ErrAlreadyLiked(err)
	case errors.Is(err, repositories.ErrNotLiked):
		return apperrors.ErrNotLiked(err)
	case errors.Is(err, repositories.ErrDataNotFound):
		return apperrors.ErrDataNotFound(err)
	}
	return apperrors.ErrInternal(err)
}
