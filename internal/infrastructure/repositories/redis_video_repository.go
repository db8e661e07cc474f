package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"github.com/go-redis/redis/v8"
)

// Keys:
//   {prefix}:id              counter
//   {prefix}:ids             sorted set of ids (score = id)
//   {prefix}:{id}            hash title/duration/data_url
//   {prefix}:{id}:likers     set of usernames
type RedisVideoRepository struct {
	client *redis.Client
	prefix string
}

var _ repositories.VideoRepository = (*RedisVideoRepository)(nil)

// -1: video yok, 0: değişiklik yok, 1: değişti
var (
	addLikerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
return redis.call('SADD', KEYS[2], ARGV[1])`)

	removeLikerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
return redis.call('SREM', KEYS[2], ARGV[1])`)

	bumpCounterScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if tonumber(ARGV[1]) > cur then redis.call('SET', KEYS[1], ARGV[1]) end
return 0`)
)

func NewRedisVideoRepository(client *redis.Client, prefix string) *RedisVideoRepository {
	return &RedisVideoRepository{client: client, prefix: prefix}
}

func (r *RedisVideoRepository) counterKey() string { return r.prefix + ":id" }
func (r *RedisVideoRepository) idsKey() string     { return r.prefix + ":ids" }
func (r *RedisVideoRepository) videoKey(id int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, id)
}
func (r *RedisVideoRepository) likersKey(id int64) string {
	return fmt.Sprintf("%s:%d:likers", r.prefix, id)
}

func (r *RedisVideoRepository) NextID(ctx context.Context) (int64, error) {
	return r.client.Incr(ctx, r.counterKey()).Result()
}

func (r *RedisVideoRepository) Save(ctx context.Context, video *entities.Video) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.videoKey(video.ID),
			"title", video.Title,
			"duration", video.Duration,
			"data_url", video.DataURL,
		)
		pipe.ZAdd(ctx, r.idsKey(), &redis.Z{Score: float64(video.ID), Member: video.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}
	return bumpCounterScript.Run(ctx, r.client, []string{r.counterKey()}, video.ID).Err()
}

func (r *RedisVideoRepository) FindByID(ctx context.Context, id int64) (*entities.Video, error) {
	videos, err := r.load(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, repositories.ErrVideoNotFound
	}
	return &videos[0], nil
}

func (r *RedisVideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := r.client.Exists(ctx, r.videoKey(id)).Result()
	return n > 0, err
}

func (r *RedisVideoRepository) Count(ctx context.Context) (int64, error) {
	return r.client.ZCard(ctx, r.idsKey()).Result()
}

func (r *RedisVideoRepository) FindAll(ctx context.Context) ([]entities.Video, error) {
	members, err := r.client.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt id %q in %s: %w", m, r.idsKey(), err)
		}
		ids = append(ids, id)
	}
	return r.load(ctx, ids)
}

// Redis has no secondary index here; filters run over the full snapshot.
func (r *RedisVideoRepository) FindByName(ctx context.Context, title string) ([]entities.Video, error) {
	return r.filter(ctx, func(v *entities.Video) bool { return v.Title == title })
}

func (r *RedisVideoRepository) FindByDurationLessThan(ctx context.Context, duration int64) ([]entities.Video, error) {
	return r.filter(ctx, func(v *entities.Video) bool { return v.Duration < duration })
}

func (r *RedisVideoRepository) AddLiker(ctx context.Context, id int64, user string) error {
	res, err := addLikerScript.Run(ctx, r.client, []string{r.videoKey(id), r.likersKey(id)}, user).Int64()
	if err != nil {
		return err
	}
	switch res {
	case -1:
		return repositories.ErrVideoNotFound
	case 0:
		return repositories.ErrAlreadyLiked
	}
	return nil
}

func (r *RedisVideoRepository) RemoveLiker(ctx context.Context, id int64, user string) error {
	res, err := removeLikerScript.Run(ctx, r.client, []string{r.videoKey(id), r.likersKey(id)}, user).Int64()
	if err != nil {
		return err
	}
	switch res {
	case -1:
		return repositories.ErrVideoNotFound
	case 0:
		return repositories.ErrNotLiked
	}
	return nil
}

func (r *RedisVideoRepository) Likers(ctx context.Context, id int64) ([]string, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.Likers, nil
}

func (r *RedisVideoRepository) Close() error {
	return r.client.Close()
}

func (r *RedisVideoRepository) filter(ctx context.Context, keep func(*entities.Video) bool) ([]entities.Video, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Video, 0)
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// load fetches hash + liker set for each id in one pipeline; missing ids are skipped.
func (r *RedisVideoRepository) load(ctx context.Context, ids []int64) ([]entities.Video, error) {
	if len(ids) == 0 {
		return []entities.Video{}, nil
	}

	hashes := make([]*redis.StringStringMapCmd, len(ids))
	sets := make([]*redis.StringSliceCmd, len(ids))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			hashes[i] = pipe.HGetAll(ctx, r.videoKey(id))
			sets[i] = pipe.SMembers(ctx, r.likersKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	videos := make([]entities.Video, 0, len(ids))
	for i, id := range ids {
		fields := hashes[i].Val()
		if len(fields) == 0 {
			continue
		}
		duration, _ := strconv.ParseInt(fields["duration"], 10, 64)
		likers := sets[i].Val()
		if likers == nil {
			likers = []string{}
		}
		sort.Strings(likers)
		videos = append(videos, entities.Video{
			ID:       id,
			Title:    fields["title"],
			Duration: duration,
			DataURL:  fields["data_url"],
			Likers:   likers,
		})
	}
	return videos, nil
}
