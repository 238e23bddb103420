// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/profile/models"
)

// ProfileRepository defines the data access contract for profiles.
type ProfileRepository interface {
	FindByID(ctx context.Context, userID string) (*models.Profile, error)
	FindBySocialName(ctx context.Context, socialName string) (*models.Profile, error)
	FindByIDs(ctx context.Context, userIDs []string) ([]*models.Profile, error)
	Exists(ctx context.Context, userID string) (bool, error)

	// Upsert applies set to the profile, creating it from seed when absent.
	Upsert(ctx context.Context, userID string, set map[string]interface{}, seed *models.Profile) (*models.Profile, error)
}
