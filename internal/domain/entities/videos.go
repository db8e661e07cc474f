package entities

import "time"

type Video struct {
	ID        int64    `gorm:"primaryKey;autoIncrement:false"`
	Title     string   `gorm:"type:varchar(255);not null;index"`
	Duration  int64    `gorm:"not null;index"`
	DataURL   string   `gorm:"column:data_url;type:varchar(500)"`
	Likers    []string `gorm:"-"` // video_likers tablosundan doldurulur
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Video) TableName() string { return "videos" }

// VideoLiker is one (video, user) like relation; the composite key keeps it unique.
type VideoLiker struct {
	VideoID   int64  `gorm:"primaryKey"`
	Username  string `gorm:"primaryKey;type:varchar(255)"`
	CreatedAt time.Time
}

func (VideoLiker) TableName() string { return "video_likers" }

// Clone returns a copy that shares no slice memory with v.
func (v Video) Clone() Video {
	c := v
	if v.Likers != nil {
		c.Likers = append(make([]string, 0, len(v.Likers)), v.Likers...)
	}
	return c
}
