package services

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	mediamodels "github.com/limitedgamerz39-afk/friendflix/media/models"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
)

// PostService defines the interface for post operations
type PostService interface {
	CreatePost(ctx context.Context, user types.UserContext, req *models.CreatePostRequest) (*models.PostView, error)

	// GetValidPosts is the feed query composer every listing is built on.
	GetValidPosts(ctx context.Context, filter models.PostFilter, page, limit int) (*models.PostsPage, error)
	GetFeed(ctx context.Context, userID string, page, limit int) (*models.PostsPage, error)
	GetUserPosts(ctx context.Context, userID string, page, limit int) (*models.PostsPage, error)
	GetReels(ctx context.Context, userID string, tab models.ReelsTab, page, limit int) (*models.PostsPage, error)
	GetWatch(ctx context.Context, category string, page, limit int) (*models.PostsPage, error)

	GetPost(ctx context.Context, postID string) (*models.PostView, error)
	GetPostsByIDs(ctx context.Context, postIDs []string) ([]*models.PostView, error)
	DeletePost(ctx context.Context, postID, ownerID string) error

	ToggleLike(ctx context.Context, postID string, user types.UserContext) (*models.PostView, error)
	AddComment(ctx context.Context, postID string, user types.UserContext, text string) (*models.PostView, error)

	// InvalidateListings drops cached reels and watch pages after media they embed changes.
	InvalidateListings(ctx context.Context)
}

// MediaLookup resolves media references at post creation.
type MediaLookup interface {
	GetMediaByIDs(ctx context.Context, ids []string) ([]*mediamodels.Media, error)
}

// FollowingProvider lists the users someone follows.
type FollowingProvider interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// Notifier records a notification for recipientID.
type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID, kind, relatedID, message string) error
}
