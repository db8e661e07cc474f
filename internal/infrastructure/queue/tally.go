package queue

import (
	"fmt"
	"sort"
	"sync"

	"video-svc/internal/domain/entities"
)

// LikeTally counts what the event stream reports. It only sees events delivered to
// this worker, so it is a statistic and never a source of truth for likes.
//
// Likes are counted per (video, user) balance, so an unlike delivered before its like
// is held as -1 and cancels the like when it arrives.
type LikeTally struct {
	mu          sync.Mutex
	likes       map[int64]int64
	balance     map[likeKey]int
	created     int64
	dataUploads int64
	processed   int64
}

type likeKey struct {
	videoID int64
	user    string
}

type VideoLikes struct {
	VideoID int64
	Likes   int64
}

type TallySnapshot struct {
	Processed   int64
	Created     int64
	DataUploads int64
	Top         []VideoLikes
}

func NewLikeTally() *LikeTally {
	return &LikeTally{
		likes:   make(map[int64]int64),
		balance: make(map[likeKey]int),
	}
}

func (t *LikeTally) Apply(event entities.VideoEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Type {
	case entities.EventVideoCreated:
		t.created++
	case entities.EventVideoLiked:
		t.shift(event, 1)
	case entities.EventVideoUnliked:
		t.shift(event, -1)
	case entities.EventVideoDataUploaded:
		t.dataUploads++
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
	t.processed++
	return nil
}

// shift moves the (video, user) balance by delta. The video is counted as liked by
// user exactly while the balance is positive.
func (t *LikeTally) shift(event entities.VideoEvent, delta int) {
	key := likeKey{videoID: event.VideoID, user: event.User}
	before := t.balance[key]
	after := before + delta

	switch {
	case before <= 0 && after > 0:
		t.likes[event.VideoID]++
	case before > 0 && after <= 0:
		t.likes[event.VideoID]--
	}
	if after == 0 {
		delete(t.balance, key)
	} else {
		t.balance[key] = after
	}
}

func (t *LikeTally) Likes(videoID int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.likes[videoID]
}

// Snapshot returns the counters and the n most liked videos (ties by lower id).
func (t *LikeTally) Snapshot(n int) TallySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	top := make([]VideoLikes, 0, len(t.likes))
	for id, likes := range t.likes {
		if likes > 0 {
			top = append(top, VideoLikes{VideoID: id, Likes: likes})
		}
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Likes != top[j].Likes {
			return top[i].Likes > top[j].Likes
		}
		return top[i].VideoID < top[j].VideoID
	})
	if n >= 0 && len(top) > n {
		top = top[:n]
	}

	return TallySnapshot{
		Processed:   t.processed,
		Created:     t.created,
		DataUploads: t.dataUploads,
		Top:         top,
	}
}
