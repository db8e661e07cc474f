package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-svc/internal/domain/repositories"
	"video-svc/internal/pkg/fileutils"
)

const tempMarker = ".tmp."

type LocalStorage struct {
	BasePath string
}

var _ repositories.DataStorage = (*LocalStorage)(nil)

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

// path keeps keys inside BasePath.
func (l *LocalStorage) path(key string) (string, error) {
	full := filepath.Join(l.BasePath, filepath.FromSlash(key))
	base := filepath.Clean(l.BasePath) + string(os.PathSeparator)
	if !strings.HasPrefix(full, base) {
		return "", fmt.Errorf("geçersiz anahtar: %q", key)
	}
	return full, nil
}

func (l *LocalStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("klasör oluşturulamadı: %w", err)
	}

	// Önce geçici dosyaya yaz, sonra atomik rename
	tmpPath := fmt.Sprintf("%s%s%d", fullPath, tempMarker, time.Now().UnixNano())
	outFile, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("dosya oluşturulamadı: %w", err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("dosya yazılamadı: %w", err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("dosya kapatılamadı: %w", err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		// Fallback: copy + remove
		if copyErr := fileutils.CopyFile(tmpPath, fullPath); copyErr != nil {
			os.Remove(tmpPath)
			return "", fmt.Errorf("dosya yazılamadı: %w", copyErr)
		}
		os.Remove(tmpPath)
	}

	return fullPath, nil
}

func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repositories.ErrDataNotFound
	}
	return f, err
}

func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// RemoveStaleTemp deletes temp files older than maxAge that an interrupted Upload left behind.
func (l *LocalStorage) RemoveStaleTemp(maxAge time.Duration) (int, error) {
	removed := 0
	cutoff := time.Now().Add(-maxAge)
	err := filepath.WalkDir(l.BasePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.Contains(d.Name(), tempMarker) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}
