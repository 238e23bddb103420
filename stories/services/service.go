package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
	"github.com/limitedgamerz39-afk/friendflix/storage/provider"
	storyerrors "github.com/limitedgamerz39-afk/friendflix/stories/errors"
	"github.com/limitedgamerz39-afk/friendflix/stories/models"
	"github.com/limitedgamerz39-afk/friendflix/stories/repository"
)

const DefaultMaxSize int64 = 50 << 20

type Service interface {
	Upload(ctx context.Context, owner types.UserContext, upload *models.Upload) (*models.StoryView, error)
	Active(ctx context.Context) ([]*models.StoryView, error)
	UserStories(ctx context.Context, ownerID string) ([]*models.StoryView, error)

	// View records userID as a viewer once. Expired stories are not found.
	View(ctx context.Context, storyID, userID string) error

	// Viewers is visible to the owner only.
	Viewers(ctx context.Context, storyID, userID string) ([]*models.ViewerView, error)

	Delete(ctx context.Context, storyID, userID string) error
}

type UserResolver interface {
	GetSummaries(ctx context.Context, userIDs []string) (map[string]profilemodels.Summary, error)
}

type Dependencies struct {
	Repo    repository.Repository
	Storage provider.BlobProvider
	Users   UserResolver
	Emitter realtime.Emitter
	Events  events.Publisher
	MaxSize int64
}

type service struct {
	repo    repository.Repository
	storage provider.BlobProvider
	users   UserResolver
	emitter realtime.Emitter
	events  events.Publisher
	maxSize int64
	now     func() time.Time
}

func NewService(deps Dependencies) Service {
	s := &service{
		repo:    deps.Repo,
		storage: deps.Storage,
		users:   deps.Users,
		emitter: deps.Emitter,
		events:  deps.Events,
		maxSize: deps.MaxSize,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.emitter == nil {
		s.emitter = realtime.NopEmitter{}
	}
	if s.maxSize <= 0 {
		s.maxSize = DefaultMaxSize
	}
	return s
}

func (s *service) validate(upload *models.Upload) (models.MediaType, error) {
	if len(upload.Data) == 0 {
		return "", storyerrors.Validationf("No file uploaded")
	}
	if int64(len(upload.Data)) > s.maxSize {
		return "", storyerrors.Validationf("File exceeds the %d byte limit", s.maxSize)
	}
	upload.Caption = strings.TrimSpace(upload.Caption)
	if utf8.RuneCountInString(upload.Caption) > models.MaxCaptionLength {
		return "", storyerrors.Validationf("Caption must be %d characters or less", models.MaxCaptionLength)
	}
	if upload.ContentType == "" || upload.ContentType == "application/octet-stream" {
		upload.ContentType = http.DetectContentType(upload.Data)
	}
	switch {
	case strings.HasPrefix(upload.ContentType, "image/"):
		return models.MediaImage, nil
	case strings.HasPrefix(upload.ContentType, "video/"):
		return models.MediaVideo, nil
	}
	return "", storyerrors.Validationf("Only image and video files are allowed")
}

// objectName keeps the base name of a client filename and drops separators.
func objectName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "story"
	}
	return strings.ReplaceAll(name, " ", "_")
}

func (s *service) Upload(ctx context.Context, owner types.UserContext, upload *models.Upload) (*models.StoryView, error) {
	mediaType, err := s.validate(upload)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, storyerrors.ErrStorageUnavailable
	}

	ownerID := owner.UserID.String()
	now := s.now()
	prefix := fmt.Sprintf("stories/%s/%d", ownerID, now.UnixMilli())
	st := &models.Story{
		ID:        uuid.Must(uuid.NewV4()).String(),
		OwnerID:   ownerID,
		MediaKey:  prefix + "_" + objectName(upload.Filename),
		MediaType: mediaType,
		Caption:   upload.Caption,
		Viewers:   []models.Viewer{},
		ExpiresAt: now.Add(models.Lifetime),
		CreatedAt: now,
	}

	size := int64(len(upload.Data))
	if err := s.storage.PutObject(ctx, st.MediaKey, bytes.NewReader(upload.Data), size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %v", storyerrors.ErrStorageUnavailable, err)
	}
	st.MediaURL = s.storage.ObjectURL(st.MediaKey)

	if mediaType == models.MediaImage {
		s.attachThumbnail(ctx, st, prefix, upload.Data)
	}

	if err := s.repo.Create(ctx, st); err != nil {
		s.removeObjects(ctx, st)
		return nil, err
	}

	view := s.views(ctx, []*models.Story{st})[0]
	s.emitter.EmitToAll(realtime.EventStoryCreated, view)
	events.Emit(s.events, events.NewEvent(events.StoryCreated, ownerID, map[string]interface{}{
		"storyId":   st.ID,
		"mediaType": string(st.MediaType),
	}))
	return view, nil
}

// attachThumbnail is best effort; a story without a thumbnail is still valid.
func (s *service) attachThumbnail(ctx context.Context, st *models.Story, prefix string, data []byte) {
	thumb, err := thumbnail(data)
	if err != nil {
		log.WarnWithContext(ctx, "story %s thumbnail: %v", st.ID, err)
		return
	}
	key := prefix + "_thumb.jpg"
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
		log.WarnWithContext(ctx, "store story %s thumbnail: %v", st.ID, err)
		return
	}
	st.ThumbnailKey = key
	st.ThumbnailURL = s.storage.ObjectURL(key)
}

func (s *service) removeObjects(ctx context.Context, st *models.Story) {
	if s.storage == nil {
		return
	}
	for _, key := range []string{st.MediaKey, st.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			log.WarnWithContext(ctx, "remove story object %s: %v", key, err)
		}
	}
}

func (s *service) Active(ctx context.Context) ([]*models.StoryView, error) {
	stories, err := s.repo.Active(ctx, "", s.now())
	if err != nil {
		return nil, err
	}
	return s.views(ctx, stories), nil
}

func (s *service) UserStories(ctx context.Context, ownerID string) ([]*models.StoryView, error) {
	stories, err := s.repo.Active(ctx, ownerID, s.now())
	if err != nil {
		return nil, err
	}
	return s.views(ctx, stories), nil
}

func (s *service) View(ctx context.Context, storyID, userID string) error {
	st, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return err
	}
	now := s.now()
	if st.Expired(now) {
		return storyerrors.ErrStoryNotFound
	}
	if st.OwnerID == userID {
		return nil
	}
	_, err = s.repo.AddViewer(ctx, storyID, models.Viewer{UserID: userID, ViewedAt: now})
	return err
}

func (s *service) Viewers(ctx context.Context, storyID, userID string) ([]*models.ViewerView, error) {
	st, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != userID {
		return nil, storyerrors.ErrStoryNotFound
	}

	ids := make([]string, 0, len(st.Viewers))
	for _, v := range st.Viewers {
		ids = append(ids, v.UserID)
	}
	summaries := s.summaries(ctx, ids)

	out := make([]*models.ViewerView, 0, len(st.Viewers))
	for _, v := range st.Viewers {
		user, ok := summaries[v.UserID]
		if !ok {
			user = profilemodels.Summary{ID: v.UserID}
		}
		out = append(out, &models.ViewerView{User: user, ViewedAt: v.ViewedAt})
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, storyID, userID string) error {
	st, err := s.repo.DeleteOwned(ctx, storyID, userID)
	if err != nil {
		return err
	}
	s.removeObjects(ctx, st)
	return nil
}

// summaries degrades to an empty join when profiles are unavailable.
func (s *service) summaries(ctx context.Context, ids []string) map[string]profilemodels.Summary {
	if s.users == nil || len(ids) == 0 {
		return map[string]profilemodels.Summary{}
	}
	out, err := s.users.GetSummaries(ctx, ids)
	if err != nil {
		log.WarnWithContext(ctx, "resolve story users: %v", err)
		return map[string]profilemodels.Summary{}
	}
	return out
}

func (s *service) views(ctx context.Context, stories []*models.Story) []*models.StoryView {
	ids := []string{}
	seen := map[string]bool{}
	for _, st := range stories {
		if !seen[st.OwnerID] {
			seen[st.OwnerID] = true
			ids = append(ids, st.OwnerID)
		}
	}
	summaries := s.summaries(ctx, ids)

	out := make([]*models.StoryView, 0, len(stories))
	for _, st := range stories {
		view := &models.StoryView{Story: *st}
		if u, ok := summaries[st.OwnerID]; ok {
			u := u
			view.User = &u
		}
		out = append(out, view)
	}
	return out
}
