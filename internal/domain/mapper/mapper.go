package mapper

import (
	"video-svc/internal/domain/dto"
	"video-svc/internal/domain/entities"
)

func VideoToDTO(v *entities.Video) dto.VideoDTO {
	return dto.VideoDTO{
		ID:       v.ID,
		Title:    v.Title,
		Duration: v.Duration,
		DataURL:  v.DataURL,
		Likes:    int64(len(v.Likers)),
	}
}

func VideosToDTO(videos []entities.Video) []dto.VideoDTO {
	out := make([]dto.VideoDTO, 0, len(videos))
	for i := range videos {
		out = append(out, VideoToDTO(&videos[i]))
	}
	return out
}

// CreateRequestToVideo builds a new, unsaved record; the store assigns id and dataUrl.
func CreateRequestToVideo(req *dto.CreateVideoRequestDTO) *entities.Video {
	return &entities.Video{
		Title:    req.Title,
		Duration: req.Duration,
		Likers:   []string{},
	}
}
