package routers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"video-svc/internal/delivery/http/handlers"
	"video-svc/internal/domain/dto"
	"video-svc/internal/infrastructure/events"
	infra_repo "video-svc/internal/infrastructure/repositories"
	"video-svc/internal/infrastructure/storage"
	"video-svc/internal/pkg/config"
	"video-svc/internal/pkg/urls"
	"video-svc/internal/usecases"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const userHeader = "X-User"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 4 * 1024 * 1024},
		Public: config.PublicConfig{Scheme: "http", Host: "localhost", Port: 8080},
		Auth:   config.AuthConfig{UserHeader: userHeader},
	}
	log := zap.NewNop()
	repo := infra_repo.NewInMemoryVideoRepository()
	svc := usecases.NewVideoService(
		usecases.NewVideoStore(repo, urls.FromConfig(cfg.Public)),
		repo,
		storage.NewLocalStorage(t.TempDir()),
		events.NoopPublisher{},
		log,
	)
	return NewApp(cfg, handlers.NewVideoHandler(svc, log), log)
}

func do(t *testing.T, app *fiber.App, method, path, user string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func createVideo(t *testing.T, app *fiber.App, title string, duration int64) dto.VideoDTO {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"id": 42, "title": title, "duration": duration})
	require.NoError(t, err)

	resp := do(t, app, http.MethodPost, "/video", "", bytes.NewReader(payload), fiber.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.VideoDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndList(t *testing.T) {
	app := newTestApp(t)

	v := createVideo(t, app, "a", 100)
	assert.Equal(t, int64(1), v.ID, "client supplied id is ignored")
	assert.Equal(t, "http://localhost:8080/video/1/data", v.DataURL)
	assert.Zero(t, v.Likes)

	resp := do(t, app, http.MethodGet, "/video", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.VideoDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)

	resp = do(t, app, http.MethodGet, "/video/1", "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, http.MethodPost, "/video", "", bytes.NewBufferString("{"), fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLikeFlow(t *testing.T) {
	app := newTestApp(t)
	createVideo(t, app, "a", 100)

	resp := do(t, app, http.MethodPost, "/video/1/like", "alice", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/video/1/like", "alice", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "already_liked", body.Error)
	assert.Equal(t, "You already liked that video, you can't like it twice.", body.Message)

	resp = do(t, app, http.MethodPost, "/video/1/unlike", "bob", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "not_liked", decodeError(t, resp).Error)

	resp = do(t, app, http.MethodGet, "/video/1/likedby", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var likers []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&likers))
	assert.Equal(t, []string{"alice"}, likers)

	resp = do(t, app, http.MethodPost, "/video/1/unlike", "alice", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLikeErrors(t *testing.T) {
	app := newTestApp(t)
	createVideo(t, app, "a", 100)

	cases := []struct {
		name   string
		path   string
		user   string
		status int
		code   string
	}{
		{"missing caller", "/video/1/like", "", http.StatusUnauthorized, "unauthorized"},
		{"unknown video", "/video/9/like", "alice", http.StatusNotFound, "not_found"},
		{"malformed id", "/video/abc/like", "alice", http.StatusBadRequest, "invalid_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPost, tc.path, tc.user, nil, "")
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Error)
		})
	}
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)
	createVideo(t, app, "a", 10)
	createVideo(t, app, "b", 500)

	resp := do(t, app, http.MethodGet, "/video/search/findByName?title=a", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byName []dto.VideoDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&byName))
	require.Len(t, byName, 1)
	assert.Equal(t, "a", byName[0].Title)

	resp = do(t, app, http.MethodGet, "/video/search/findByDurationLessThan?duration=100", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var short []dto.VideoDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&short))
	require.Len(t, short, 1)
	assert.Equal(t, int64(10), short[0].Duration)

	resp = do(t, app, http.MethodGet, "/video/search/findByDurationLessThan?duration=abc", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFindByNameRequiresTitle(t *testing.T) {
	app := newTestApp(t)
	createVideo(t, app, "", 10)
	createVideo(t, app, "a", 10)

	resp := do(t, app, http.MethodGet, "/video/search/findByName", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", decodeError(t, resp).Error)

	// explicitly empty title is a real query
	resp = do(t, app, http.MethodGet, "/video/search/findByName?title=", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []dto.VideoDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/nope", "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", decodeError(t, resp).Error)
}

func TestVideoData(t *testing.T) {
	app := newTestApp(t)
	createVideo(t, app, "a", 100)

	resp := do(t, app, http.MethodGet, "/video/1/data", "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "data_not_found", decodeError(t, resp).Error)

	payload := []byte("some video bytes")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("data", "clip.mp4")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp = do(t, app, http.MethodPost, "/video/1/data", "", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status dto.VideoStatusDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "READY", status.State)

	resp = do(t, app, http.MethodGet, "/video/1/data", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	resp = do(t, app, http.MethodPost, "/video/9/data", "", bytes.NewBufferString(""), fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing form file")
}
