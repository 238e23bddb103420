package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	mediamodels "github.com/limitedgamerz39-afk/friendflix/media/models"
)

func summary(id string, status mediamodels.UploadStatus) mediamodels.Summary {
	return mediamodels.Summary{ID: id, UploadStatus: status}
}

func TestIsDisplayable(t *testing.T) {
	tests := []struct {
		name     string
		post     Post
		resolved []mediamodels.Summary
		want     bool
	}{
		{"caption only", Post{Caption: "hello"}, nil, true},
		{"empty text post", Post{}, nil, false},
		{"completed media", Post{MediaID: "m1"}, []mediamodels.Summary{summary("m1", mediamodels.StatusCompleted)}, true},
		{"pending media", Post{MediaID: "m1"}, []mediamodels.Summary{summary("m1", mediamodels.StatusPending)}, true},
		{"uploading media", Post{MediaID: "m1"}, []mediamodels.Summary{summary("m1", mediamodels.StatusUploading)}, true},
		{"failed media", Post{MediaID: "m1", Caption: "x"}, []mediamodels.Summary{summary("m1", mediamodels.StatusFailed)}, false},
		{"dangling reference", Post{MediaID: "gone", Caption: "x"}, nil, false},
		{
			"album with one failed",
			Post{MediaIDs: []string{"a", "b"}},
			[]mediamodels.Summary{summary("a", mediamodels.StatusCompleted), summary("b", mediamodels.StatusFailed)},
			false,
		},
		{
			"album partly dangling",
			Post{MediaIDs: []string{"a", "b"}},
			[]mediamodels.Summary{summary("a", mediamodels.StatusCompleted)},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDisplayable(&tt.post, tt.resolved))
		})
	}
}

func TestReferences(t *testing.T) {
	assert.Equal(t, []string{"m"}, (&Post{MediaID: "m"}).References())
	assert.Equal(t, []string{"a", "b"}, (&Post{MediaIDs: []string{"a", "b"}}).References())
	assert.Empty(t, (&Post{}).References())
}

func TestReelsTabWindow(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, TabTrending.Window())
	assert.Equal(t, 30*24*time.Hour, TabRecommended.Window())
	assert.Zero(t, TabFollowing.Window())
}

func TestEnums(t *testing.T) {
	assert.True(t, PostTypeLongVideo.Valid())
	assert.False(t, PostType("clip").Valid())
	assert.True(t, CategoryGaming.Valid())
	assert.False(t, Category("cooking").Valid())
}
