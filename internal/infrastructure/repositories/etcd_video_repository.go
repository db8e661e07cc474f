package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const etcdOpTimeout = 5 * time.Second

// EtcdVideoRepository keeps one JSON value per video and one empty key per like:
//
//	{prefix}counter
//	{prefix}v/{id zero padded}      -> etcdVideo JSON
//	{prefix}likers/{id}/{username}  -> ""
type EtcdVideoRepository struct {
	client *clientv3.Client
	prefix string
}

type etcdVideo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
	DataURL  string `json:"data_url"`
}

var _ repositories.VideoRepository = (*EtcdVideoRepository)(nil)

func NewEtcdVideoRepository(endpoints []string, prefix string, dialTimeout time.Duration) (*EtcdVideoRepository, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdVideoRepository{client: cli, prefix: prefix}, nil
}

func (r *EtcdVideoRepository) counterKey() string { return r.prefix + "counter" }
func (r *EtcdVideoRepository) videosPrefix() string { return r.prefix + "v/" }
func (r *EtcdVideoRepository) videoKey(id int64) string {
	// sıfır dolgulu anahtar, prefix taramasında id sırasını korur
	return fmt.Sprintf("%s%020d", r.videosPrefix(), id)
}
func (r *EtcdVideoRepository) likersPrefix(id int64) string {
	return fmt.Sprintf("%slikers/%d/", r.prefix, id)
}

func (r *EtcdVideoRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	err := r.updateCounter(ctx, func(cur int64) (int64, bool) {
		next = cur + 1
		return next, true
	})
	return next, err
}

// updateCounter retries a compare-and-swap on the counter's ModRevision until it wins.
// A missing counter has ModRevision 0, so the first writer creates it.
func (r *EtcdVideoRepository) updateCounter(ctx context.Context, next func(cur int64) (int64, bool)) error {
	key := r.counterKey()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
		resp, err := r.client.Get(opCtx, key)
		if err != nil {
			cancel()
			return err
		}
		var cur, rev int64
		if len(resp.Kvs) > 0 {
			cur, err = strconv.ParseInt(string(resp.Kvs[0].Value), 10, 64)
			if err != nil {
				cancel()
				return fmt.Errorf("corrupt counter %s: %w", key, err)
			}
			rev = resp.Kvs[0].ModRevision
		}
		val, write := next(cur)
		if !write {
			cancel()
			return nil
		}
		txn, err := r.client.Txn(opCtx).
			If(clientv3.Compare(clientv3.ModRevision(key), "=", rev)).
			Then(clientv3.OpPut(key, strconv.FormatInt(val, 10))).
			Commit()
		cancel()
		if err != nil {
			return err
		}
		if txn.Succeeded {
			return nil
		}
	}
}

func (r *EtcdVideoRepository) Save(ctx context.Context, video *entities.Video) error {
	raw, err := json.Marshal(etcdVideo{
		ID:       video.ID,
		Title:    video.Title,
		Duration: video.Duration,
		DataURL:  video.DataURL,
	})
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	_, err = r.client.Put(opCtx, r.videoKey(video.ID), string(raw))
	cancel()
	if err != nil {
		return fmt.Errorf("etcd put failed: %w", err)
	}

	return r.updateCounter(ctx, func(cur int64) (int64, bool) {
		return video.ID, video.ID > cur
	})
}

func (r *EtcdVideoRepository) FindByID(ctx context.Context, id int64) (*entities.Video, error) {
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()

	resp, err := r.client.Get(opCtx, r.videoKey(id))
	if err != nil {
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, repositories.ErrVideoNotFound
	}
	v, err := decodeEtcdVideo(resp.Kvs[0].Value)
	if err != nil {
		return nil, err
	}
	likers, err := r.likers(opCtx, id)
	if err != nil {
		return nil, err
	}
	v.Likers = likers
	return v, nil
}

func (r *EtcdVideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()

	resp, err := r.client.Get(opCtx, r.videoKey(id), clientv3.WithCountOnly())
	if err != nil {
		return false, err
	}
	return resp.Count > 0, nil
}

func (r *EtcdVideoRepository) Count(ctx context.Context) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()

	resp, err := r.client.Get(opCtx, r.videosPrefix(), clientv3.WithPrefix(), clientv3.WithCountOnly())
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (r *EtcdVideoRepository) FindAll(ctx context.Context) ([]entities.Video, error) {
	return r.filter(ctx, func(*entities.Video) bool { return true })
}

func (r *EtcdVideoRepository) FindByName(ctx context.Context, title string) ([]entities.Video, error) {
	return r.filter(ctx, func(v *entities.Video) bool { return v.Title == title })
}

func (r *EtcdVideoRepository) FindByDurationLessThan(ctx context.Context, duration int64) ([]entities.Video, error) {
	return r.filter(ctx, func(v *entities.Video) bool { return v.Duration < duration })
}

func (r *EtcdVideoRepository) AddLiker(ctx context.Context, id int64, user string) error {
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()

	videoKey := r.videoKey(id)
	likerKey := r.likersPrefix(id) + user
	resp, err := r.client.Txn(opCtx).
		If(
			clientv3.Compare(clientv3.CreateRevision(videoKey), ">", 0),
			clientv3.Compare(clientv3.CreateRevision(likerKey), "=", 0),
		).
		Then(clientv3.OpPut(likerKey, "")).
		Else(clientv3.OpGet(videoKey, clientv3.WithCountOnly())).
		Commit()
	if err != nil {
		return err
	}
	if resp.Succeeded {
		return nil
	}
	if resp.Responses[0].GetResponseRange().Count == 0 {
		return repositories.ErrVideoNotFound
	}
	return repositories.ErrAlreadyLiked
}

func (r *EtcdVideoRepository) RemoveLiker(ctx context.Context, id int64, user string) error {
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()

	videoKey := r.videoKey(id)
	likerKey := r.likersPrefix(id) + user
	resp, err := r.client.Txn(opCtx).
		If(
			clientv3.Compare(clientv3.CreateRevision(videoKey), ">", 0),
			clientv3.Compare(clientv3.CreateRevision(likerKey), ">", 0),
		).
		Then(clientv3.OpDelete(likerKey)).
		Else(clientv3.OpGet(videoKey, clientv3.WithCountOnly())).
		Commit()
	if err != nil {
		return err
	}
	if resp.Succeeded {
		return nil
	}
	if resp.Responses[0].GetResponseRange().Count == 0 {
		return repositories.ErrVideoNotFound
	}
	return repositories.ErrNotLiked
}

func (r *EtcdVideoRepository) Likers(ctx context.Context, id int64) ([]string, error) {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrVideoNotFound
	}
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()
	return r.likers(opCtx, id)
}

func (r *EtcdVideoRepository) Close() error {
	return r.client.Close()
}

func (r *EtcdVideoRepository) likers(ctx context.Context, id int64) ([]string, error) {
	prefix := r.likersPrefix(id)
	resp, err := r.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, err
	}
	likers := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		likers = append(likers, strings.TrimPrefix(string(kv.Key), prefix))
	}
	sort.Strings(likers)
	return likers, nil
}

func (r *EtcdVideoRepository) filter(ctx context.Context, keep func(*entities.Video) bool) ([]entities.Video, error) {
	opCtx, cancel := context.WithTimeout(ctx, etcdOpTimeout)
	defer cancel()

	resp, err := r.client.Get(opCtx, r.videosPrefix(), clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}
	videos := make([]entities.Video, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		v, err := decodeEtcdVideo(kv.Value)
		if err != nil {
			return nil, err
		}
		if !keep(v) {
			continue
		}
		if v.Likers, err = r.likers(opCtx, v.ID); err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, nil
}

func decodeEtcdVideo(raw []byte) (*entities.Video, error) {
	var ev etcdVideo
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("corrupt video value: %w", err)
	}
	return &entities.Video{
		ID:       ev.ID,
		Title:    ev.Title,
		Duration: ev.Duration,
		DataURL:  ev.DataURL,
	}, nil
}
