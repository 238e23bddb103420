package repository

import (
	"context"

	mediaerrors "github.com/limitedgamerz39-afk/friendflix/media/errors"
	"github.com/limitedgamerz39-afk/friendflix/media/models"
)

// Repository defines persistence for media records. Lookups scoped by owner return
// ErrMediaNotFound for both missing and foreign records.
type Repository interface {
	Create(ctx context.Context, m *models.Media) error
	FindOwned(ctx context.Context, id, ownerID string) (*models.Media, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Media, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Media, error)

	// UpsertChunk replaces or appends the chunk with the same number in one atomic write and
	// moves a non-terminal upload to uploading. It returns the updated record.
	UpsertChunk(ctx context.Context, id, ownerID string, chunk models.Chunk) (*models.Media, error)

	// MarkCompleted applies update only while the upload is open and every chunk is
	// recorded. A lost race yields ErrAlreadyFinalized, a failed upload ErrUploadFailed.
	MarkCompleted(ctx context.Context, id, ownerID string, update models.FinalizeUpdate) (*models.Media, error)

	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// finalizeMiss explains why a conditional finalize matched nothing.
func finalizeMiss(current *models.Media) error {
	if current == nil {
		return mediaerrors.ErrMediaNotFound
	}
	if current.UploadStatus == models.StatusFailed {
		return mediaerrors.ErrUploadFailed
	}
	if current.UploadStatus.Terminal() {
		return mediaerrors.ErrAlreadyFinalized
	}
	return &mediaerrors.IncompleteUploadError{
		UploadedChunks: len(current.Chunks),
		TotalChunks:    current.TotalChunks,
	}
}
