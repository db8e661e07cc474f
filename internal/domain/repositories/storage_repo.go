package repositories

import (
	"context"
	"errors"
	"io"
)

var ErrDataNotFound = errors.New("video data not found")

// DataStorage holds the binary payload addressed by a video's dataUrl.
type DataStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
