package repositories

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"
)

type memoryRecord struct {
	video  entities.Video
	likers map[string]struct{}
}

type InMemoryVideoRepository struct {
	mu     sync.RWMutex
	data   map[int64]*memoryRecord
	lastID atomic.Int64
}

var _ repositories.VideoRepository = (*InMemoryVideoRepository)(nil)

func NewInMemoryVideoRepository() *InMemoryVideoRepository {
	return &InMemoryVideoRepository{
		data: make(map[int64]*memoryRecord),
	}
}

func (r *InMemoryVideoRepository) NextID(_ context.Context) (int64, error) {
	return r.lastID.Add(1), nil
}

func (r *InMemoryVideoRepository) Save(_ context.Context, video *entities.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Var olan kayıtta liker seti korunur, sadece metadata güncellenir
	if rec, ok := r.data[video.ID]; ok {
		rec.video.Title = video.Title
		rec.video.Duration = video.Duration
		rec.video.DataURL = video.DataURL
		return nil
	}
	stored := video.Clone()
	stored.Likers = nil
	r.data[video.ID] = &memoryRecord{video: stored, likers: make(map[string]struct{})}

	// keep the counter ahead of ids saved explicitly
	for {
		cur := r.lastID.Load()
		if video.ID <= cur || r.lastID.CompareAndSwap(cur, video.ID) {
			break
		}
	}
	return nil
}

func (r *InMemoryVideoRepository) FindByID(_ context.Context, id int64) (*entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, exists := r.data[id]
	if !exists {
		return nil, repositories.ErrVideoNotFound
	}
	v := rec.snapshot()
	return &v, nil
}

func (r *InMemoryVideoRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data[id]
	return ok, nil
}

func (r *InMemoryVideoRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.data)), nil
}

func (r *InMemoryVideoRepository) FindAll(_ context.Context) ([]entities.Video, error) {
	return r.filter(func(*entities.Video) bool { return true }), nil
}

func (r *InMemoryVideoRepository) FindByName(_ context.Context, title string) ([]entities.Video, error) {
	return r.filter(func(v *entities.Video) bool { return v.Title == title }), nil
}

func (r *InMemoryVideoRepository) FindByDurationLessThan(_ context.Context, duration int64) ([]entities.Video, error) {
	return r.filter(func(v *entities.Video) bool { return v.Duration < duration }), nil
}

func (r *InMemoryVideoRepository) AddLiker(_ context.Context, id int64, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return repositories.ErrVideoNotFound
	}
	if _, liked := rec.likers[user]; liked {
		return repositories.ErrAlreadyLiked
	}
	rec.likers[user] = struct{}{}
	return nil
}

func (r *InMemoryVideoRepository) RemoveLiker(_ context.Context, id int64, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return repositories.ErrVideoNotFound
	}
	if _, liked := rec.likers[user]; !liked {
		return repositories.ErrNotLiked
	}
	delete(rec.likers, user)
	return nil
}

func (r *InMemoryVideoRepository) Likers(_ context.Context, id int64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[id]
	if !ok {
		return nil, repositories.ErrVideoNotFound
	}
	return rec.likerList(), nil
}

func (r *InMemoryVideoRepository) Close() error { return nil }

func (r *InMemoryVideoRepository) filter(keep func(*entities.Video) bool) []entities.Video {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Video, 0)
	for _, rec := range r.data {
		if !keep(&rec.video) {
			continue
		}
		result = append(result, rec.snapshot())
	}
	return result
}

func (rec *memoryRecord) snapshot() entities.Video {
	v := rec.video.Clone()
	v.Likers = rec.likerList()
	return v
}

func (rec *memoryRecord) likerList() []string {
	out := make([]string, 0, len(rec.likers))
	for u := range rec.likers {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
