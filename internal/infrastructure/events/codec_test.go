package events

import (
	"testing"

	"video-svc/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	event := entities.NewVideoEvent(entities.EventVideoLiked, 7, "alice")

	data, err := Encode(event)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Type, got.Type)
	assert.Equal(t, int64(7), got.VideoID)
	assert.Equal(t, "alice", got.User)
	assert.True(t, event.At.Equal(got.At))
}

func TestDecodeRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     "{",
		"missing type": `{"video_id":1}`,
		"missing id":   `{"type":"video_liked"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.Error(t, err)
		})
	}
}
