package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

func TestNewEvent(t *testing.T) {
	evt := NewEvent(MediaUploadCompleted, "m1", map[string]interface{}{"url": "http://x"})

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, Source, evt.Source)
	assert.Equal(t, "m1", evt.Key)

	raw, err := evt.ToJSON()
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "media.upload.completed", decoded["type"])
}

func TestNewPublisherDisabled(t *testing.T) {
	pub := NewPublisher(platformconfig.EventsConfig{Enabled: false})
	_, ok := pub.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, pub.Publish(context.Background(), NewEvent(PostLiked, "p", nil)))
}

func TestEmit(t *testing.T) {
	pub := &MemoryPublisher{}
	Emit(pub, NewEvent(PostLiked, "p1", nil))
	Emit(pub, NewEvent(UserFollowed, "u1", nil))
	Emit(nil, NewEvent(UserFollowed, "u2", nil))

	assert.Eventually(t, func() bool { return len(pub.Events()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Len(t, pub.OfType(PostLiked), 1)
}
