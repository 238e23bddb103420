// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/follows/models"
)

// Repository defines data access for follow edges.
type Repository interface {
	// Create stores an edge; returns ErrAlreadyFollowing when the pair exists.
	Create(ctx context.Context, f *models.Follow) error

	// Delete removes an edge; returns true when one was removed.
	Delete(ctx context.Context, followerID, followingID string) (bool, error)

	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)

	// ListFollowers returns edges pointing at userID, newest first, with the total.
	ListFollowers(ctx context.Context, userID string, page, limit int) ([]*models.Follow, int64, error)

	// ListFollowing returns edges leaving userID, newest first, with the total.
	ListFollowing(ctx context.Context, userID string, page, limit int) ([]*models.Follow, int64, error)

	// FollowingIDs returns every user id userID follows.
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}
