// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/posts/models"
)

// PostRepository defines the data access contract for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, postID string) (*models.Post, error)

	// FindValid returns one page of displayable posts matching filter, newest first,
	// with the total count of displayable matches.
	FindValid(ctx context.Context, filter models.PostFilter, page, limit int) ([]*models.PostView, int64, error)
	// View joins a single post regardless of displayability.
	View(ctx context.Context, postID string) (*models.PostView, error)
	// Views joins the given posts, skipping missing ids.
	Views(ctx context.Context, postIDs []string) ([]*models.PostView, error)

	// ToggleLike flips userID in the like set in one update and returns the new state.
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)

	// Delete removes an owned post and reports whether one was removed.
	Delete(ctx context.Context, postID, ownerID string) (bool, error)
}
