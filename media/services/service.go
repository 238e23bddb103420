package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/metrics"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	mediaerrors "github.com/limitedgamerz39-afk/friendflix/media/errors"
	"github.com/limitedgamerz39-afk/friendflix/media/models"
	"github.com/limitedgamerz39-afk/friendflix/media/repository"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
	"github.com/limitedgamerz39-afk/friendflix/storage/provider"
)

// UserMediaLimit caps the media listing of one user.
const UserMediaLimit = 50

// Service drives the chunked upload lifecycle.
type Service interface {
	InitializeUpload(ctx context.Context, ownerID string, req *models.InitializeUploadRequest) (*models.InitializeUploadResponse, error)
	UploadChunk(ctx context.Context, ownerID string, req *models.UploadChunkRequest) (*models.UploadChunkResponse, error)
	FinalizeUpload(ctx context.Context, ownerID string, req *models.FinalizeUploadRequest) (*models.FinalizeUploadResponse, error)
	GetUploadStatus(ctx context.Context, mediaID, ownerID string) (*models.UploadStatusResponse, error)
	ListUserMedia(ctx context.Context, userID string) ([]*models.Media, error)
	DeleteMedia(ctx context.Context, mediaID, ownerID string) error

	// GetMediaByIDs resolves references for post creation.
	GetMediaByIDs(ctx context.Context, ids []string) ([]*models.Media, error)

	// SetListingInvalidator registers the cache owner told about finalize and delete.
	// It must be called before the service handles requests.
	SetListingInvalidator(l ListingInvalidator)
}

// ListingInvalidator drops cached listings that embed media summaries.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// Dependencies groups the collaborators of the media service. Storage may be nil when the
// gateway is disabled; Emitter, Events and Metrics are optional.
type Dependencies struct {
	Repo    repository.Repository
	Storage provider.BlobProvider
	Emitter realtime.Emitter
	Events  events.Publisher
	Metrics *metrics.Metrics
	Upload  platformconfig.UploadConfig
}

type service struct {
	repo    repository.Repository
	storage provider.BlobProvider
	emitter realtime.Emitter
	events  events.Publisher
	metrics *metrics.Metrics
	cfg     platformconfig.UploadConfig
	now     func() time.Time

	listings ListingInvalidator
}

func NewService(deps Dependencies) Service {
	s := &service{
		repo:    deps.Repo,
		storage: deps.Storage,
		emitter: deps.Emitter,
		events:  deps.Events,
		metrics: deps.Metrics,
		cfg:     deps.Upload,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.emitter == nil {
		s.emitter = realtime.NopEmitter{}
	}
	if s.cfg.PresignTTL <= 0 {
		s.cfg.PresignTTL = 24 * time.Hour
	}
	return s
}

func (s *service) SetListingInvalidator(l ListingInvalidator) {
	s.listings = l
}

func (s *service) invalidateListings(ctx context.Context) {
	if s.listings != nil {
		s.listings.InvalidateListings(ctx)
	}
}

// maxSizeFor returns the size ceiling; unknown types fall back to the post ceiling.
func (s *service) maxSizeFor(t models.UploadType) int64 {
	switch t {
	case models.UploadReel:
		return s.cfg.MaxReelSize
	case models.UploadLongVideo:
		return s.cfg.MaxLongVideoSize
	case models.UploadStory:
		return s.cfg.MaxStorySize
	default:
		return s.cfg.MaxPostSize
	}
}

func (s *service) validateInitialize(req *models.InitializeUploadRequest) error {
	if strings.TrimSpace(req.Filename) == "" {
		return mediaerrors.Validationf(mediaerrors.ErrValidation, "filename is required")
	}
	if strings.Contains(req.Filename, "/") || strings.Contains(req.Filename, "\\") {
		return mediaerrors.Validationf(mediaerrors.ErrValidation, "filename must not contain path separators")
	}
	if strings.TrimSpace(req.MimeType) == "" {
		return mediaerrors.Validationf(mediaerrors.ErrValidation, "mimeType is required")
	}
	if req.Size <= 0 {
		return mediaerrors.Validationf(mediaerrors.ErrValidation, "size must be greater than zero")
	}

	maxSize := s.maxSizeFor(req.UploadType)
	if maxSize > 0 && req.Size > maxSize {
		return mediaerrors.Validationf(mediaerrors.ErrPayloadTooLarge,
			"File size too large. Maximum %dMB allowed for %s", maxSize/(1024*1024), req.UploadType)
	}

	if req.Duration != nil {
		d := *req.Duration
		if req.UploadType == models.UploadReel && s.cfg.MaxReelDurationSec > 0 && d > s.cfg.MaxReelDurationSec {
			return mediaerrors.Validationf(mediaerrors.ErrInvalidDuration,
				"Reel videos must be %d seconds or less", int(s.cfg.MaxReelDurationSec))
		}
		if req.UploadType == models.UploadLongVideo && s.cfg.MaxLongVideoDurationSec > 0 && d > s.cfg.MaxLongVideoDurationSec {
			return mediaerrors.Validationf(mediaerrors.ErrInvalidDuration,
				"Videos must be %d minutes or less", int(s.cfg.MaxLongVideoDurationSec/60))
		}
	}

	if !req.UploadType.Valid() {
		return mediaerrors.Validationf(mediaerrors.ErrValidation, "unsupported uploadType %q", req.UploadType)
	}
	return nil
}

func (s *service) InitializeUpload(ctx context.Context, ownerID string, req *models.InitializeUploadRequest) (*models.InitializeUploadResponse, error) {
	if s.storage == nil {
		return nil, mediaerrors.ErrStorageUnavailable
	}
	if req.UploadType == "" {
		req.UploadType = models.UploadPost
	}
	if err := s.validateInitialize(req); err != nil {
		return nil, err
	}

	mediaID := uuid.Must(uuid.NewV4()).String()
	totalChunks := models.TotalChunks(req.Size)

	// Presign before persisting so a gateway failure leaves no orphaned record.
	urls := make([]models.PresignedURL, 0, totalChunks)
	for i := 0; i < totalChunks; i++ {
		u, err := s.storage.PresignPut(ctx, models.ChunkKey(mediaID, i), s.cfg.PresignTTL)
		if err != nil {
			log.ErrorWithContext(ctx, "Presign failed for media %s chunk %d: %v", mediaID, i, err)
			return nil, fmt.Errorf("%w: %v", mediaerrors.ErrStorageUnavailable, err)
		}
		urls = append(urls, models.PresignedURL{ChunkNumber: i, URL: u})
	}

	categories := req.Categories
	if categories == nil {
		categories = []string{}
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	metadata := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"categories":  categories,
		"tags":        tags,
	}
	if ratio := models.AspectRatio(req.Width, req.Height); ratio != nil {
		metadata["aspectRatio"] = *ratio
	}

	now := s.now()
	m := &models.Media{
		ID:           mediaID,
		OwnerID:      ownerID,
		Filename:     req.Filename,
		MimeType:     req.MimeType,
		Size:         req.Size,
		IsVideo:      req.IsVideo,
		Duration:     req.Duration,
		Width:        req.Width,
		Height:       req.Height,
		UploadType:   req.UploadType,
		TotalChunks:  totalChunks,
		Chunks:       []models.Chunk{},
		UploadStatus: models.StatusPending,
		Metadata:     metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.UploadsStarted.WithLabelValues(string(req.UploadType)).Inc()
	}
	events.Emit(s.events, events.NewEvent(events.MediaUploadInitialized, mediaID, map[string]interface{}{
		"mediaId":     mediaID,
		"userId":      ownerID,
		"uploadType":  req.UploadType,
		"size":        req.Size,
		"totalChunks": totalChunks,
	}))
	log.InfoWithContext(ctx, "Upload %s initialized by %s (%d chunks, %s)", mediaID, ownerID, totalChunks, req.UploadType)

	return &models.InitializeUploadResponse{
		MediaID:       mediaID,
		PresignedURLs: urls,
		TotalChunks:   totalChunks,
		ChunkSize:     models.ChunkSize,
	}, nil
}

func (s *service) UploadChunk(ctx context.Context, ownerID string, req *models.UploadChunkRequest) (*models.UploadChunkResponse, error) {
	if req.MediaID == "" || req.ChunkNumber == nil || strings.TrimSpace(req.ETag) == "" {
		return nil, mediaerrors.Validationf(mediaerrors.ErrValidation, "Missing required parameters")
	}

	current, err := s.repo.FindOwned(ctx, req.MediaID, ownerID)
	if err != nil {
		return nil, err
	}
	if current.UploadStatus == models.StatusFailed {
		return nil, mediaerrors.ErrUploadFailed
	}
	n := *req.ChunkNumber
	if n < 0 || n >= current.TotalChunks {
		return nil, mediaerrors.Validationf(mediaerrors.ErrInvalidChunk,
			"chunkNumber must be between 0 and %d", current.TotalChunks-1)
	}

	updated, err := s.repo.UpsertChunk(ctx, req.MediaID, ownerID, models.Chunk{
		ChunkNumber: n,
		ETag:        req.ETag,
		UploadedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ChunksRecorded.Inc()
	}
	return &models.UploadChunkResponse{
		Message:        "Chunk uploaded successfully",
		UploadedChunks: len(updated.Chunks),
		TotalChunks:    updated.TotalChunks,
	}, nil
}

func (s *service) FinalizeUpload(ctx context.Context, ownerID string, req *models.FinalizeUploadRequest) (*models.FinalizeUploadResponse, error) {
	if req.MediaID == "" {
		return nil, mediaerrors.Validationf(mediaerrors.ErrValidation, "mediaId is required")
	}

	current, err := s.repo.FindOwned(ctx, req.MediaID, ownerID)
	if err != nil {
		return nil, err
	}
	if current.UploadStatus == models.StatusFailed {
		return nil, mediaerrors.ErrUploadFailed
	}
	if current.UploadStatus.Terminal() {
		return nil, mediaerrors.ErrAlreadyFinalized
	}
	if len(current.Chunks) != current.TotalChunks {
		return nil, &mediaerrors.IncompleteUploadError{
			UploadedChunks: len(current.Chunks),
			TotalChunks:    current.TotalChunks,
		}
	}
	if s.storage == nil {
		return nil, mediaerrors.ErrStorageUnavailable
	}

	url := s.storage.ObjectURL(models.FinalKey(ownerID, current.ID, current.Filename))

	uploadType := current.UploadType
	if req.UploadType != "" {
		if !req.UploadType.Valid() {
			return nil, mediaerrors.Validationf(mediaerrors.ErrValidation, "unsupported uploadType %q", req.UploadType)
		}
		uploadType = req.UploadType
	}

	metadata := make(map[string]interface{}, len(current.Metadata)+len(req.Metadata)+2)
	for k, v := range current.Metadata {
		metadata[k] = v
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["caption"] = req.Caption
	metadata["finalUrl"] = url

	update := models.FinalizeUpdate{
		URL:        url,
		Caption:    req.Caption,
		UploadType: uploadType,
		Metadata:   metadata,
		UploadedAt: s.now(),
	}
	if current.IsVideo {
		update.ProcessingStatus = models.ProcessingQueued
	}

	done, err := s.repo.MarkCompleted(ctx, current.ID, ownerID, update)
	if err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	s.emitter.EmitToAll(realtime.EventMediaUploadCompleted, map[string]interface{}{
		"mediaId": done.ID,
		"userId":  done.OwnerID,
		"status":  done.UploadStatus,
		"url":     done.URL,
	})
	events.Emit(s.events, events.NewEvent(events.MediaUploadCompleted, done.ID, map[string]interface{}{
		"mediaId":    done.ID,
		"userId":     done.OwnerID,
		"uploadType": done.UploadType,
		"url":        done.URL,
		"isVideo":    done.IsVideo,
	}))
	if done.IsVideo {
		events.Emit(s.events, events.NewEvent(events.MediaProcessingQueued, done.ID, map[string]interface{}{
			"mediaId":   done.ID,
			"objectKey": models.FinalKey(ownerID, done.ID, done.Filename),
			"mimeType":  done.MimeType,
		}))
	}
	if s.metrics != nil {
		s.metrics.UploadsFinished.WithLabelValues(string(done.UploadType)).Inc()
	}
	log.InfoWithContext(ctx, "Upload %s finalized by %s", done.ID, ownerID)

	return &models.FinalizeUploadResponse{
		Message: "Upload successfully",
		Media: models.FinalizedMedia{
			ID:     done.ID,
			URL:    done.URL,
			Type:   done.UploadType,
			Status: done.UploadStatus,
		},
	}, nil
}

func (s *service) GetUploadStatus(ctx context.Context, mediaID, ownerID string) (*models.UploadStatusResponse, error) {
	m, err := s.repo.FindOwned(ctx, mediaID, ownerID)
	if err != nil {
		return nil, err
	}
	return &models.UploadStatusResponse{
		ID:               m.ID,
		UploadStatus:     m.UploadStatus,
		ProcessingStatus: m.ProcessingStatus,
		UploadedChunks:   len(m.Chunks),
		TotalChunks:      m.TotalChunks,
		Progress:         m.Progress(),
	}, nil
}

func (s *service) ListUserMedia(ctx context.Context, userID string) ([]*models.Media, error) {
	return s.repo.ListByOwner(ctx, userID, UserMediaLimit)
}

func (s *service) GetMediaByIDs(ctx context.Context, ids []string) ([]*models.Media, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// DeleteMedia removes the record. Backing objects are removed best-effort: failures are
// logged and never block the delete.
func (s *service) DeleteMedia(ctx context.Context, mediaID, ownerID string) error {
	m, err := s.repo.FindOwned(ctx, mediaID, ownerID)
	if err != nil {
		return err
	}

	if s.storage != nil {
		keys := make([]string, 0, m.TotalChunks+1)
		if m.URL != "" {
			keys = append(keys, models.FinalKey(m.OwnerID, m.ID, m.Filename))
		}
		for i := 0; i < m.TotalChunks; i++ {
			keys = append(keys, models.ChunkKey(m.ID, i))
		}
		for _, key := range keys {
			if err := s.storage.Delete(ctx, key); err != nil {
				log.ErrorWithContext(ctx, "Failed to remove object %s for media %s: %v", key, m.ID, err)
			}
		}
	}

	deleted, err := s.repo.Delete(ctx, mediaID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return mediaerrors.ErrMediaNotFound
	}
	s.invalidateListings(ctx)

	events.Emit(s.events, events.NewEvent(events.MediaDeleted, m.ID, map[string]interface{}{
		"mediaId": m.ID,
		"userId":  m.OwnerID,
	}))
	return nil
}
