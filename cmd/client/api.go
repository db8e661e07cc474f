package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-svc/internal/domain/dto"
)

type apiClient struct {
	base       string
	userHeader string
	http       *http.Client
}

func newAPIClient(base, userHeader string) *apiClient {
	return &apiClient{
		base:       strings.TrimRight(base, "/"),
		userHeader: userHeader,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.Status, e.Body.Error, e.Body.Message)
}

func (c *apiClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&e.Body)
		return e
	}
	if out == nil {
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err = io.Copy(w, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) CreateVideo(title string, duration int64) (*dto.VideoDTO, error) {
	body, err := json.Marshal(dto.CreateVideoRequestDTO{Title: title, Duration: duration})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.base+"/video", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var v dto.VideoDTO
	return &v, c.do(req, &v)
}

func (c *apiClient) ListVideos() ([]dto.VideoDTO, error) {
	var videos []dto.VideoDTO
	return videos, c.get("/video", &videos)
}

func (c *apiClient) toggle(id int64, action, user string) error {
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/video/%d/%s", c.base, id, action), nil)
	if err != nil {
		return err
	}
	req.Header.Set(c.userHeader, user)
	return c.do(req, nil)
}

func (c *apiClient) Like(id int64, user string) error   { return c.toggle(id, "like", user) }
func (c *apiClient) Unlike(id int64, user string) error { return c.toggle(id, "unlike", user) }

func (c *apiClient) LikedBy(id int64) ([]string, error) {
	var likers []string
	return likers, c.get(fmt.Sprintf("/video/%d/likedby", id), &likers)
}

func (c *apiClient) UploadData(id int64, filePath string) (*dto.VideoStatusDTO, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("dosya açılamadı: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("data", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("form dosyası oluşturulamadı: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("form dosyasına yazılamadı: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/video/%d/data", c.base, id), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var status dto.VideoStatusDTO
	return &status, c.do(req, &status)
}

func (c *apiClient) DownloadData(id int64, w io.Writer) error {
	return c.get(fmt.Sprintf("/video/%d/data", id), w)
}
