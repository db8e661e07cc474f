package repositories

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFactory func(t *testing.T) repositories.VideoRepository

func backends() map[string]repoFactory {
	return map[string]repoFactory{
		"memory": func(t *testing.T) repositories.VideoRepository {
			return NewInMemoryVideoRepository()
		},
		"sqlite": func(t *testing.T) repositories.VideoRepository {
			repo, err := NewSQLiteVideoRepository(filepath.Join(t.TempDir(), "videos.db"))
			require.NoError(t, err)
			t.Cleanup(func() { repo.Close() })
			return repo
		},
	}
}

func saveNew(t *testing.T, repo repositories.VideoRepository, title string, duration int64) *entities.Video {
	t.Helper()
	ctx := context.Background()
	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	v := &entities.Video{ID: id, Title: title, Duration: duration, DataURL: "http://x/video/data"}
	require.NoError(t, repo.Save(ctx, v))
	return v
}

func TestVideoRepository(t *testing.T) {
	for name, newRepo := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("NextIDUniqueUnderConcurrency", func(t *testing.T) {
				repo := newRepo(t)
				const n = 50
				ids := make(chan int64, n)
				var wg sync.WaitGroup
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						id, err := repo.NextID(context.Background())
						assert.NoError(t, err)
						ids <- id
					}()
				}
				wg.Wait()
				close(ids)

				seen := make(map[int64]bool)
				for id := range ids {
					assert.NotZero(t, id)
					assert.False(t, seen[id], "duplicate id %d", id)
					seen[id] = true
				}
				assert.Len(t, seen, n)
			})

			t.Run("SaveAndFind", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()
				v := saveNew(t, repo, "a", 100)

				got, err := repo.FindByID(ctx, v.ID)
				require.NoError(t, err)
				assert.Equal(t, v.ID, got.ID)
				assert.Equal(t, "a", got.Title)
				assert.Equal(t, int64(100), got.Duration)
				assert.Equal(t, v.DataURL, got.DataURL)
				assert.Empty(t, got.Likers)

				ok, err := repo.Exists(ctx, v.ID)
				require.NoError(t, err)
				assert.True(t, ok)

				n, err := repo.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
			})

			t.Run("MissingVideo", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()

				_, err := repo.FindByID(ctx, 42)
				assert.ErrorIs(t, err, repositories.ErrVideoNotFound)

				ok, err := repo.Exists(ctx, 42)
				require.NoError(t, err)
				assert.False(t, ok)

				_, err = repo.Likers(ctx, 42)
				assert.ErrorIs(t, err, repositories.ErrVideoNotFound)
				assert.ErrorIs(t, repo.AddLiker(ctx, 42, "alice"), repositories.ErrVideoNotFound)
				assert.ErrorIs(t, repo.RemoveLiker(ctx, 42, "alice"), repositories.ErrVideoNotFound)
			})

			t.Run("ResaveKeepsLikers", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()
				v := saveNew(t, repo, "a", 100)
				require.NoError(t, repo.AddLiker(ctx, v.ID, "alice"))

				v.Title = "b"
				v.Likers = nil
				require.NoError(t, repo.Save(ctx, v))

				got, err := repo.FindByID(ctx, v.ID)
				require.NoError(t, err)
				assert.Equal(t, "b", got.Title)
				assert.Equal(t, []string{"alice"}, got.Likers)

				n, err := repo.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
			})

			t.Run("ExplicitIDIsNeverReissued", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()
				require.NoError(t, repo.Save(ctx, &entities.Video{ID: 10, Title: "x"}))

				id, err := repo.NextID(ctx)
				require.NoError(t, err)
				assert.Greater(t, id, int64(10))
			})

			t.Run("Filters", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()
				saveNew(t, repo, "cats", 50)
				saveNew(t, repo, "cats", 100)
				saveNew(t, repo, "Cats", 10)
				saveNew(t, repo, "dogs", 99)

				byName, err := repo.FindByName(ctx, "cats")
				require.NoError(t, err)
				assert.Len(t, byName, 2)
				for _, v := range byName {
					assert.Equal(t, "cats", v.Title)
				}

				short, err := repo.FindByDurationLessThan(ctx, 99)
				require.NoError(t, err)
				assert.Len(t, short, 2)
				for _, v := range short {
					assert.Less(t, v.Duration, int64(99))
				}

				none, err := repo.FindByName(ctx, "birds")
				require.NoError(t, err)
				assert.NotNil(t, none)
				assert.Empty(t, none)

				all, err := repo.FindAll(ctx)
				require.NoError(t, err)
				assert.Len(t, all, 4)
			})

			t.Run("LikeToggle", func(t *testing.T) {
				repo := newRepo(t)
				ctx := context.Background()
				v := saveNew(t, repo, "a", 100)

				assert.ErrorIs(t, repo.RemoveLiker(ctx, v.ID, "bob"), repositories.ErrNotLiked)
				require.NoError(t, repo.AddLiker(ctx, v.ID, "alice"))
				assert.ErrorIs(t, repo.AddLiker(ctx, v.ID, "alice"), repositories.ErrAlreadyLiked)
				require.NoError(t, repo.AddLiker(ctx, v.ID, "bob"))

				likers, err := repo.Likers(ctx, v.ID)
				require.NoError(t, err)
				assert.ElementsMatch(t, []string{"alice", "bob"}, likers)

				require.NoError(t, repo.RemoveLiker(ctx, v.ID, "alice"))
				assert.ErrorIs(t, repo.RemoveLiker(ctx, v.ID, "alice"), repositories.ErrNotLiked)

				likers, err = repo.Likers(ctx, v.ID)
				require.NoError(t, err)
				assert.Equal(t, []string{"bob"}, likers)
			})

			t.Run("ConcurrentIdenticalLikes", func(t *testing.T) {
				repo := newRepo(t)
				v := saveNew(t, repo, "a", 100)

				const n = 20
				errs := make(chan error, n)
				var wg sync.WaitGroup
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						errs <- repo.AddLiker(context.Background(), v.ID, "alice")
					}()
				}
				wg.Wait()
				close(errs)

				succeeded := 0
				for err := range errs {
					if err == nil {
						succeeded++
						continue
					}
					assert.ErrorIs(t, err, repositories.ErrAlreadyLiked)
				}
				assert.Equal(t, 1, succeeded)

				likers, err := repo.Likers(context.Background(), v.ID)
				require.NoError(t, err)
				assert.Equal(t, []string{"alice"}, likers)
			})
		})
	}
}

func TestInMemoryVideoRepository_SnapshotsAreCopies(t *testing.T) {
	repo := NewInMemoryVideoRepository()
	ctx := context.Background()
	v := saveNew(t, repo, "a", 1)
	require.NoError(t, repo.AddLiker(ctx, v.ID, "alice"))

	got, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	got.Likers[0] = "mallory"
	got.Title = "changed"

	again, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Title)
	assert.Equal(t, []string{"alice"}, again.Likers)
}
