package models

import (
	"time"

	mediamodels "github.com/limitedgamerz39-afk/friendflix/media/models"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

type PostType string

const (
	PostTypePost      PostType = "post"
	PostTypeReel      PostType = "reel"
	PostTypeStory     PostType = "story"
	PostTypeLongVideo PostType = "long_video"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypePost, PostTypeReel, PostTypeStory, PostTypeLongVideo:
		return true
	}
	return false
}

type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategoryMusic         Category = "music"
	CategorySports        Category = "sports"
	CategoryNews          Category = "news"
	CategoryGaming        Category = "gaming"
	CategoryOther         Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEntertainment, CategoryEducation, CategoryMusic, CategorySports,
		CategoryNews, CategoryGaming, CategoryOther:
		return true
	}
	return false
}

const (
	MaxCaptionLength     = 2200
	MaxTitleLength       = 100
	MaxDescriptionLength = 5000
	MaxCommentLength     = 2200
)

type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	AuthorID  string    `json:"userId" bson:"userId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Post references either one media (MediaID) or an album (MediaIDs), or neither for a
// text post.
type Post struct {
	ID          string    `json:"id" bson:"_id"`
	OwnerID     string    `json:"userId" bson:"userId"`
	MediaID     string    `json:"mediaId,omitempty" bson:"mediaId,omitempty"`
	MediaIDs    []string  `json:"mediaIds" bson:"mediaIds"`
	Caption     string    `json:"caption" bson:"caption"`
	PostType    PostType  `json:"postType" bson:"postType"`
	Title       string    `json:"title,omitempty" bson:"title,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    Category  `json:"category" bson:"category"`
	Duration    *float64  `json:"duration,omitempty" bson:"duration,omitempty"`
	Views       int64     `json:"views" bson:"views"`
	Likes       []string  `json:"likes" bson:"likes"`
	Comments    []Comment `json:"comments" bson:"comments"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// References lists every media id this post points at.
func (p *Post) References() []string {
	if p.MediaID != "" {
		return []string{p.MediaID}
	}
	return p.MediaIDs
}

func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// IsDisplayable decides feed eligibility. A text post needs a caption. A media post needs
// at least one resolved reference and every resolved reference in a displayable status.
func IsDisplayable(p *Post, resolved []mediamodels.Summary) bool {
	if len(p.References()) == 0 {
		return p.Caption != ""
	}
	if len(resolved) == 0 {
		return false
	}
	for _, m := range resolved {
		if !m.UploadStatus.Displayable() {
			return false
		}
	}
	return true
}

// PostView is a post joined with its owner and media summaries. Dangling references
// leave User and Media nil and are omitted from MediaItems.
type PostView struct {
	Post       `bson:",inline"`
	User       *profilemodels.Summary `json:"user" bson:"user,omitempty"`
	Media      *mediamodels.Summary   `json:"media" bson:"media,omitempty"`
	MediaItems []mediamodels.Summary  `json:"mediaItems" bson:"mediaItems"`
}

type PostFilter struct {
	OwnerIDs     []string
	PostType     PostType
	Category     Category
	CreatedAfter *time.Time
}

type CreatePostRequest struct {
	MediaID     string   `json:"mediaId"`
	MediaIDs    []string `json:"mediaIds"`
	Caption     string   `json:"caption"`
	PostType    PostType `json:"postType"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Duration    *float64 `json:"duration"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

// PostsPage is the paged feed envelope.
type PostsPage struct {
	Posts       []*PostView `json:"posts"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalPosts  int64       `json:"totalPosts"`
}

type ReelsTab string

const (
	TabFollowing   ReelsTab = "following"
	TabTrending    ReelsTab = "trending"
	TabRecommended ReelsTab = "recommended"
)

// Window is the createdAt lookback of a reels tab, zero for unbounded.
func (t ReelsTab) Window() time.Duration {
	switch t {
	case TabTrending:
		return 7 * 24 * time.Hour
	case TabRecommended:
		return 30 * 24 * time.Hour
	}
	return 0
}
