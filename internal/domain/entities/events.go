package entities

import (
	"time"

	"github.com/google/uuid"
)

type VideoEventType string

const (
	EventVideoCreated      VideoEventType = "video_created"
	EventVideoLiked        VideoEventType = "video_liked"
	EventVideoUnliked      VideoEventType = "video_unliked"
	EventVideoDataUploaded VideoEventType = "video_data_uploaded"
)

type VideoEvent struct {
	ID      uuid.UUID      `json:"id"`
	Type    VideoEventType `json:"type"`
	VideoID int64          `json:"video_id"`
	User    string         `json:"user,omitempty"`
	At      time.Time      `json:"at"`
}

func NewVideoEvent(t VideoEventType, videoID int64, user string) VideoEvent {
	return VideoEvent{
		ID:      uuid.New(),
		Type:    t,
		VideoID: videoID,
		User:    user,
		At:      time.Now().UTC(),
	}
}
