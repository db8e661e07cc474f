package helper

import (
	"path/filepath"
	"strings"
)

func GetMimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/avi"
	case ".mkv":
		return "video/mkv"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	default:
		return "application/octet-stream"
	}
}

func IsVideoFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	videoExtensions := []string{".mp4", ".avi", ".mkv", ".webm", ".mov"}
	for _, v := range videoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}
