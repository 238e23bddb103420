package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/cache"
	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	postsErrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
	"github.com/limitedgamerz39-afk/friendflix/posts/repository"
	"github.com/limitedgamerz39-afk/friendflix/posts/validation"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	// notification previews of comments keep this many characters
	commentPreviewLength = 50

	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Dependencies wires the post service. Graph, Notifier, Emitter, Events and Cache are
// optional.
type Dependencies struct {
	Repo     repository.PostRepository
	Media    MediaLookup
	Graph    FollowingProvider
	Notifier Notifier
	Emitter  realtime.Emitter
	Events   events.Publisher
	Cache    *cache.GenericCacheService
}

type postService struct {
	repo         repository.PostRepository
	media        MediaLookup
	graph        FollowingProvider
	notifier     Notifier
	emitter      realtime.Emitter
	events       events.Publisher
	cacheService *cache.GenericCacheService
	now          func() time.Time
}

func NewPostService(deps Dependencies) PostService {
	s := &postService{
		repo:         deps.Repo,
		media:        deps.Media,
		graph:        deps.Graph,
		notifier:     deps.Notifier,
		emitter:      deps.Emitter,
		events:       deps.Events,
		cacheService: deps.Cache,
		now:          time.Now,
	}
	if s.emitter == nil {
		s.emitter = realtime.NopEmitter{}
	}
	return s
}

func (s *postService) CreatePost(ctx context.Context, user types.UserContext, req *models.CreatePostRequest) (*models.PostView, error) {
	if err := validation.NormalizeCreatePostRequest(req); err != nil {
		return nil, err
	}
	ownerID := user.UserID.String()

	duration := req.Duration
	if refs := references(req); len(refs) > 0 {
		found, err := s.checkMedia(ctx, ownerID, refs)
		if err != nil {
			return nil, err
		}
		if duration == nil && req.MediaID != "" && len(found) == 1 {
			duration = found[0]
		}
	}

	now := s.now().UTC()
	post := &models.Post{
		ID:          uuid.Must(uuid.NewV4()).String(),
		OwnerID:     ownerID,
		MediaID:     req.MediaID,
		MediaIDs:    append([]string{}, req.MediaIDs...),
		Caption:     req.Caption,
		PostType:    req.PostType,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    duration,
		Likes:       []string{},
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.InvalidateListings(ctx)

	events.Emit(s.events, events.NewEvent(events.PostCreated, post.ID, map[string]interface{}{
		"userId":   ownerID,
		"postType": string(post.PostType),
	}))
	log.InfoWithContext(ctx, "post %s created by %s", post.ID, ownerID)

	return s.repo.View(ctx, post.ID)
}

func references(req *models.CreatePostRequest) []string {
	if req.MediaID != "" {
		return []string{req.MediaID}
	}
	return req.MediaIDs
}

// checkMedia requires every reference to exist and be owned by the caller or be in a
// displayable status. It returns the durations of the resolved media.
func (s *postService) checkMedia(ctx context.Context, ownerID string, refs []string) ([]*float64, error) {
	if s.media == nil {
		return nil, fmt.Errorf("%w: media lookup unavailable", postsErrors.ErrDatabaseOperation)
	}
	found, err := s.media.GetMediaByIDs(ctx, refs)
	if err != nil {
		return nil, err
	}
	durations := []*float64{}
	for _, m := range found {
		if m.OwnerID == ownerID || m.UploadStatus.Displayable() {
			durations = append(durations, m.Duration)
		}
	}
	if len(durations) != len(refs) {
		if len(refs) == 1 {
			return nil, fmt.Errorf("%w: Media not found", postsErrors.ErrMediaNotFound)
		}
		return nil, fmt.Errorf("%w: One or more media not found", postsErrors.ErrMediaNotFound)
	}
	return durations, nil
}

func (s *postService) GetValidPosts(ctx context.Context, filter models.PostFilter, page, limit int) (*models.PostsPage, error) {
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)
	posts, total, err := s.repo.FindValid(ctx, filter, page, limit)
	if err != nil {
		log.ErrorWithContext(ctx, "query valid posts: %v", err)
		if errors.Is(err, postsErrors.ErrDatabaseOperation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", postsErrors.ErrDatabaseOperation, err)
	}
	pr := types.NewPageResult(page, limit, total)
	return &models.PostsPage{
		Posts:       posts,
		CurrentPage: pr.CurrentPage,
		TotalPages:  pr.TotalPages,
		TotalPosts:  pr.Total,
	}, nil
}

// scope is the caller plus everyone they follow.
func (s *postService) scope(ctx context.Context, userID string) ([]string, error) {
	ids := []string{userID}
	if s.graph == nil {
		return ids, nil
	}
	following, err := s.graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(ids, following...), nil
}

func (s *postService) GetFeed(ctx context.Context, userID string, page, limit int) (*models.PostsPage, error) {
	owners, err := s.scope(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.GetValidPosts(ctx, models.PostFilter{OwnerIDs: owners}, page, limit)
}

func (s *postService) GetUserPosts(ctx context.Context, userID string, page, limit int) (*models.PostsPage, error) {
	return s.GetValidPosts(ctx, models.PostFilter{OwnerIDs: []string{userID}}, page, limit)
}

func (s *postService) GetReels(ctx context.Context, userID string, tab models.ReelsTab, page, limit int) (*models.PostsPage, error) {
	switch tab {
	case models.TabTrending, models.TabRecommended:
	default:
		tab = models.TabFollowing
	}
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)

	filter := models.PostFilter{PostType: models.PostTypeReel}
	if w := tab.Window(); w > 0 {
		after := s.now().Add(-w)
		filter.CreatedAfter = &after
	}
	params := map[string]interface{}{"tab": string(tab), "page": page, "limit": limit}
	if tab == models.TabFollowing {
		owners, err := s.scope(ctx, userID)
		if err != nil {
			return nil, err
		}
		filter.OwnerIDs = owners
		params["userId"] = userID
	}

	return s.cached(ctx, "reels", params, func() (*models.PostsPage, error) {
		return s.GetValidPosts(ctx, filter, page, limit)
	})
}

func (s *postService) GetWatch(ctx context.Context, category string, page, limit int) (*models.PostsPage, error) {
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)
	filter := models.PostFilter{PostType: models.PostTypeLongVideo}
	if category != "" && category != "all" {
		if !models.Category(category).Valid() {
			return nil, postsErrors.Validationf("invalid category %q", category)
		}
		filter.Category = models.Category(category)
	}

	params := map[string]interface{}{"category": string(filter.Category), "page": page, "limit": limit}
	return s.cached(ctx, "watch", params, func() (*models.PostsPage, error) {
		return s.GetValidPosts(ctx, filter, page, limit)
	})
}

// cached serves a listing page from the cache when enabled, filling it on a miss.
func (s *postService) cached(ctx context.Context, prefix string, params map[string]interface{}, load func() (*models.PostsPage, error)) (*models.PostsPage, error) {
	if !s.cacheService.IsEnabled() {
		return load()
	}
	key := s.cacheService.GenerateHashKey(prefix, params)
	var hit models.PostsPage
	if err := s.cacheService.GetCached(ctx, key, &hit); err == nil {
		return &hit, nil
	}
	page, err := load()
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.CacheData(ctx, key, page); err != nil {
		log.WarnWithContext(ctx, "cache %s page: %v", prefix, err)
	}
	return page, nil
}

// InvalidateListings drops the cached reels and watch pages. Failures are logged; a stale
// page expires with its TTL.
func (s *postService) InvalidateListings(ctx context.Context) {
	if !s.cacheService.IsEnabled() {
		return
	}
	for _, pattern := range []string{"reels:*", "watch:*"} {
		if err := s.cacheService.InvalidatePattern(ctx, pattern); err != nil {
			log.WarnWithContext(ctx, "invalidate %s: %v", pattern, err)
		}
	}
}

func (s *postService) GetPost(ctx context.Context, postID string) (*models.PostView, error) {
	return s.repo.View(ctx, postID)
}

func (s *postService) GetPostsByIDs(ctx context.Context, postIDs []string) ([]*models.PostView, error) {
	return s.repo.Views(ctx, postIDs)
}

func (s *postService) DeletePost(ctx context.Context, postID, ownerID string) error {
	deleted, err := s.repo.Delete(ctx, postID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return postsErrors.ErrPostNotFound
	}
	s.InvalidateListings(ctx)
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, postID string, user types.UserContext) (*models.PostView, error) {
	userID := user.UserID.String()
	post, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	liked := post.LikedBy(userID)

	if liked {
		s.notify(ctx, post.OwnerID, userID, NotificationLike, post.ID,
			fmt.Sprintf("%s liked your post", user.Name()))
		events.Emit(s.events, events.NewEvent(events.PostLiked, post.ID, map[string]interface{}{
			"userId": userID,
			"owner":  post.OwnerID,
		}))
	}
	s.emitter.EmitToAll(realtime.EventPostLiked, map[string]interface{}{
		"postId": post.ID,
		"likes":  post.Likes,
		"liked":  liked,
	})
	s.InvalidateListings(ctx)

	return s.repo.View(ctx, post.ID)
}

func (s *postService) AddComment(ctx context.Context, postID string, user types.UserContext, text string) (*models.PostView, error) {
	text, err := validation.ValidateComment(text)
	if err != nil {
		return nil, err
	}
	userID := user.UserID.String()
	comment := models.Comment{
		ID:        uuid.Must(uuid.NewV4()).String(),
		AuthorID:  userID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	post, err := s.repo.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, post.OwnerID, userID, NotificationComment, post.ID,
		fmt.Sprintf("%s commented on your post: %s", user.Name(), preview(text)))
	events.Emit(s.events, events.NewEvent(events.PostCommented, post.ID, map[string]interface{}{
		"userId":    userID,
		"commentId": comment.ID,
	}))
	s.emitter.EmitToAll(realtime.EventPostCommented, map[string]interface{}{
		"postId":        post.ID,
		"comment":       comment,
		"commentsCount": len(post.Comments),
	})
	s.InvalidateListings(ctx)

	return s.repo.View(ctx, post.ID)
}

// notify skips self actions and never fails the caller.
func (s *postService) notify(ctx context.Context, recipientID, senderID, kind, relatedID, message string) {
	if s.notifier == nil || recipientID == senderID {
		return
	}
	if err := s.notifier.Notify(ctx, recipientID, senderID, kind, relatedID, message); err != nil {
		log.ErrorWithContext(ctx, "notify %s of %s on %s: %v", recipientID, kind, relatedID, err)
	}
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= commentPreviewLength {
		return text
	}
	return string([]rune(text)[:commentPreviewLength]) + "..."
}
