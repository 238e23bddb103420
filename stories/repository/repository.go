// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"time"

	"github.com/limitedgamerz39-afk/friendflix/stories/models"
)

// Repository defines data access for stories.
type Repository interface {
	Create(ctx context.Context, s *models.Story) error
	FindByID(ctx context.Context, id string) (*models.Story, error)

	// Active returns unexpired stories newest first. An empty ownerID means every owner.
	Active(ctx context.Context, ownerID string, now time.Time) ([]*models.Story, error)

	// AddViewer appends the viewer unless already present; false when it was.
	AddViewer(ctx context.Context, id string, viewer models.Viewer) (bool, error)

	// DeleteOwned removes the story when ownerID owns it and returns what was removed.
	DeleteOwned(ctx context.Context, id, ownerID string) (*models.Story, error)
}
