package services

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	"github.com/limitedgamerz39-afk/friendflix/profile/models"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error)
	GetProfileBySocialName(ctx context.Context, socialName string) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, user types.UserContext, req *models.UpdateProfileRequest) (*models.Profile, error)

	// EnsureProfile creates the caller's profile from token claims on first sight.
	EnsureProfile(ctx context.Context, user types.UserContext) error
	Exists(ctx context.Context, userID string) (bool, error)
	GetSummaries(ctx context.Context, userIDs []string) (map[string]models.Summary, error)
}

// GraphCounter supplies follower and following counts. Implemented by the follows service.
type GraphCounter interface {
	Counts(ctx context.Context, userID string) (followers int64, following int64, err error)
}
