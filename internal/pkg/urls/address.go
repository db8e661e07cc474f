package urls

import (
	"fmt"
	"strconv"

	"video-svc/internal/pkg/config"
)

const defaultHTTPPort = 80

// ServerAddress is the public base address the store stamps into dataUrl values.
type ServerAddress struct {
	Scheme string
	Host   string
	Port   int
}

func FromConfig(cfg config.PublicConfig) ServerAddress {
	return ServerAddress{Scheme: cfg.Scheme, Host: cfg.Host, Port: cfg.Port}
}

// Base renders scheme://host[:port]. The port is left out only when it is exactly 80,
// whatever the scheme.
func (a ServerAddress) Base() string {
	scheme := a.Scheme
	if scheme == "" {
		scheme = "http"
	}
	base := scheme + "://" + a.Host
	if a.Port != defaultHTTPPort {
		base += ":" + strconv.Itoa(a.Port)
	}
	return base
}

func (a ServerAddress) DataURL(videoID int64) string {
	return fmt.Sprintf("%s/video/%d/data", a.Base(), videoID)
}
