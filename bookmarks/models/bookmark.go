package models

import (
	"time"

	postmodels "github.com/limitedgamerz39-afk/friendflix/posts/models"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
)

type Bookmark struct {
	UserID    string    `json:"userId" bson:"userId"`
	PostID    string    `json:"postId" bson:"postId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SavedPost is a hydrated bookmarked post.
type SavedPost struct {
	*postmodels.PostView
	IsBookmarked bool      `json:"isBookmarked"`
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}

type SavedPostsPage struct {
	Posts []*SavedPost `json:"posts"`
	types.PageResult
}

type ToggleResponse struct {
	IsBookmarked bool `json:"isBookmarked"`
}

type StatusResponse struct {
	Bookmarked map[string]bool `json:"bookmarked"`
}
