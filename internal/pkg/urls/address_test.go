package urls

import (
	"testing"

	"video-svc/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestDataURL(t *testing.T) {
	cases := []struct {
		addr ServerAddress
		want string
	}{
		{ServerAddress{Scheme: "http", Host: "localhost", Port: 8080}, "http://localhost:8080/video/3/data"},
		{ServerAddress{Scheme: "http", Host: "videos.example", Port: 80}, "http://videos.example/video/3/data"},
		{ServerAddress{Scheme: "https", Host: "videos.example", Port: 443}, "https://videos.example:443/video/3/data"},
		{ServerAddress{Host: "h", Port: 80}, "http://h/video/3/data"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.addr.DataURL(3))
	}
}

func TestFromConfig(t *testing.T) {
	addr := FromConfig(config.PublicConfig{Scheme: "https", Host: "x", Port: 9000})
	assert.Equal(t, ServerAddress{Scheme: "https", Host: "x", Port: 9000}, addr)
}
