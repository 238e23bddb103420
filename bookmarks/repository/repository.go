// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
)

// Repository defines data access for bookmarks.
type Repository interface {
	// AddBookmark stores a bookmark; returns true when a new row was inserted.
	AddBookmark(ctx context.Context, userID, postID string) (bool, error)

	// RemoveBookmark deletes a bookmark; returns true when a row was deleted.
	RemoveBookmark(ctx context.Context, userID, postID string) (bool, error)

	// GetMapByUserAndPosts returns a presence map for the provided post IDs.
	GetMapByUserAndPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)

	// FindMyBookmarks returns one page of bookmarks, newest first, and the total.
	FindMyBookmarks(ctx context.Context, userID string, page, limit int) ([]models.Bookmark, int64, error)
}
