package queue

import (
	"testing"

	"video-svc/internal/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestLikeTally(t *testing.T) {
	tally := NewLikeTally()

	apply := func(typ entities.VideoEventType, id int64, user string) {
		assert.NoError(t, tally.Apply(entities.NewVideoEvent(typ, id, user)))
	}
	apply(entities.EventVideoCreated, 1, "")
	apply(entities.EventVideoCreated, 2, "")
	apply(entities.EventVideoLiked, 1, "alice")
	apply(entities.EventVideoLiked, 2, "alice")
	apply(entities.EventVideoLiked, 2, "bob")
	apply(entities.EventVideoUnliked, 3, "alice")
	apply(entities.EventVideoDataUploaded, 1, "")

	assert.Equal(t, int64(1), tally.Likes(1))
	assert.Equal(t, int64(2), tally.Likes(2))
	assert.Zero(t, tally.Likes(3))

	snap := tally.Snapshot(1)
	assert.Equal(t, int64(7), snap.Processed)
	assert.Equal(t, int64(2), snap.Created)
	assert.Equal(t, int64(1), snap.DataUploads)
	assert.Equal(t, []VideoLikes{{VideoID: 2, Likes: 2}}, snap.Top)

	assert.Error(t, tally.Apply(entities.VideoEvent{Type: "bogus", VideoID: 1}))
	assert.Equal(t, int64(7), tally.Snapshot(0).Processed)
}

func TestLikeTally_OutOfOrderUnlike(t *testing.T) {
	tally := NewLikeTally()

	// unlike teslim edildi, like henüz gelmedi
	assert.NoError(t, tally.Apply(entities.NewVideoEvent(entities.EventVideoUnliked, 1, "alice")))
	assert.Zero(t, tally.Likes(1))
	assert.NoError(t, tally.Apply(entities.NewVideoEvent(entities.EventVideoLiked, 1, "alice")))
	assert.Zero(t, tally.Likes(1))

	// sonraki gerçek like tekrar sayılır
	assert.NoError(t, tally.Apply(entities.NewVideoEvent(entities.EventVideoLiked, 1, "alice")))
	assert.Equal(t, int64(1), tally.Likes(1))
	assert.NoError(t, tally.Apply(entities.NewVideoEvent(entities.EventVideoUnliked, 1, "alice")))
	assert.Zero(t, tally.Likes(1))
	assert.Empty(t, tally.Snapshot(-1).Top)
}

func TestLikeTally_TopTieBreak(t *testing.T) {
	tally := NewLikeTally()
	for _, id := range []int64{5, 3, 4} {
		assert.NoError(t, tally.Apply(entities.NewVideoEvent(entities.EventVideoLiked, id, "u")))
	}
	top := tally.Snapshot(-1).Top
	assert.Equal(t, []VideoLikes{{3, 1}, {4, 1}, {5, 1}}, top)
}
