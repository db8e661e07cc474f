package usecases

import (
	"context"
	"strings"
	"sync"
	"testing"

	"video-svc/internal/domain/entities"
	infra_repo "video-svc/internal/infrastructure/repositories"
	"video-svc/internal/pkg/urls"
	apperrors "video-svc/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(addr urls.ServerAddress) VideoStore {
	return NewVideoStore(infra_repo.NewInMemoryVideoRepository(), addr)
}

var localAddr = urls.ServerAddress{Scheme: "http", Host: "localhost", Port: 8080}

func TestVideoStore_SaveAssignsUniqueIDs(t *testing.T) {
	store := newTestStore(localAddr)
	const n = 100

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.Save(context.Background(), &entities.Video{Title: "t"})
			assert.NoError(t, err)
			ids <- v.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.NotZero(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestVideoStore_ResaveKeepsID(t *testing.T) {
	store := newTestStore(localAddr)
	ctx := context.Background()

	v, err := store.Save(ctx, &entities.Video{Title: "a", Duration: 100})
	require.NoError(t, err)
	id := v.ID

	v.Title = "renamed"
	v.DataURL = "http://evil/elsewhere"
	again, err := store.Save(ctx, v)
	require.NoError(t, err)

	assert.Equal(t, id, again.ID)
	assert.Equal(t, "renamed", again.Title)
	assert.Equal(t, localAddr.DataURL(id), again.DataURL)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestVideoStore_SaveRejectsUnknownID(t *testing.T) {
	store := newTestStore(localAddr)

	_, err := store.Save(context.Background(), &entities.Video{ID: 7, Title: "a"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestVideoStore_DataURL(t *testing.T) {
	cases := []struct {
		name string
		addr urls.ServerAddress
		want string
	}{
		{"custom port", urls.ServerAddress{Scheme: "http", Host: "localhost", Port: 8080}, "http://localhost:8080/video/1/data"},
		{"port 80 suppressed", urls.ServerAddress{Scheme: "http", Host: "example.com", Port: 80}, "http://example.com/video/1/data"},
		{"https keeps 443", urls.ServerAddress{Scheme: "https", Host: "example.com", Port: 443}, "https://example.com:443/video/1/data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(tc.addr)
			v, err := store.Save(context.Background(), &entities.Video{Title: "a"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.DataURL)
			assert.True(t, strings.HasSuffix(v.DataURL, "/video/1/data"))
			assert.NotContains(t, v.DataURL, ":80/")
		})
	}
}

func TestVideoStore_FindOne(t *testing.T) {
	store := newTestStore(localAddr)
	ctx := context.Background()

	v, found, err := store.FindOne(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	saved, err := store.Save(ctx, &entities.Video{Title: "a"})
	require.NoError(t, err)

	v, found, err = store.FindOne(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", v.Title)

	ok, err := store.Exists(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestVideoStore_UnsupportedOperationsPanic(t *testing.T) {
	store := newTestStore(localAddr)
	ctx := context.Background()

	assert.PanicsWithValue(t, apperrors.ErrUnsupported, func() { store.SaveAll(ctx, nil) })
	assert.PanicsWithValue(t, apperrors.ErrUnsupported, func() { store.FindAllByID(ctx, []int64{1}) })
	assert.PanicsWithValue(t, apperrors.ErrUnsupported, func() { store.Delete(ctx, 1) })
	assert.PanicsWithValue(t, apperrors.ErrUnsupported, func() { store.DeleteAll(ctx) })
}
