package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookmarkerrors "github.com/limitedgamerz39-afk/friendflix/bookmarks/errors"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/repository"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	posterrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	postmodels "github.com/limitedgamerz39-afk/friendflix/posts/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	maxStatusIDs     = 100
)

// Service defines bookmark operations.
type Service interface {
	// ToggleBookmark flips bookmark state; returns true when bookmarked after the call.
	ToggleBookmark(ctx context.Context, userID, postID string) (bool, error)

	// ListBookmarks returns hydrated posts bookmarked by the user, newest bookmark first.
	ListBookmarks(ctx context.Context, userID string, page, limit int) (*models.SavedPostsPage, error)

	// Status reports which of postIDs the user has bookmarked.
	Status(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

type service struct {
	repo        repository.Repository
	postService postProvider
}

// postProvider captures the subset of the post service we need to hydrate responses.
type postProvider interface {
	GetPost(ctx context.Context, postID string) (*postmodels.PostView, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]*postmodels.PostView, error)
}

// NewService constructs a bookmark service.
func NewService(repo repository.Repository, postService postProvider) Service {
	return &service{repo: repo, postService: postService}
}

func (s *service) ToggleBookmark(ctx context.Context, userID, postID string) (bool, error) {
	if s.repo == nil {
		return false, fmt.Errorf("bookmark repository is not configured")
	}

	created, err := s.repo.AddBookmark(ctx, userID, postID)
	if err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	if !created {
		// Already existed; remove to toggle off.
		if _, err := s.repo.RemoveBookmark(ctx, userID, postID); err != nil {
			return false, fmt.Errorf("remove bookmark: %w", err)
		}
		return false, nil
	}

	// Only new bookmarks need the post to exist; removing a stale one is always allowed.
	if s.postService != nil {
		if _, err := s.postService.GetPost(ctx, postID); err != nil {
			if _, rmErr := s.repo.RemoveBookmark(ctx, userID, postID); rmErr != nil {
				return false, fmt.Errorf("remove bookmark: %w", rmErr)
			}
			if errors.Is(err, posterrors.ErrPostNotFound) {
				return false, bookmarkerrors.ErrPostNotFound
			}
			return false, fmt.Errorf("get post: %w", err)
		}
	}
	return true, nil
}

func (s *service) ListBookmarks(ctx context.Context, userID string, page, limit int) (*models.SavedPostsPage, error) {
	if s.repo == nil || s.postService == nil {
		return nil, fmt.Errorf("bookmark service dependencies are not configured")
	}
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)

	entries, total, err := s.repo.FindMyBookmarks(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("find bookmarks: %w", err)
	}

	result := &models.SavedPostsPage{Posts: []*models.SavedPost{}, PageResult: types.NewPageResult(page, limit, total)}
	if len(entries) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PostID)
	}

	posts, err := s.postService.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}

	// Map for lookup
	postMap := make(map[string]*postmodels.PostView, len(posts))
	for _, p := range posts {
		postMap[p.ID] = p
	}

	for _, e := range entries {
		p, ok := postMap[e.PostID]
		if !ok {
			continue // post may be deleted; skip
		}
		result.Posts = append(result.Posts, &models.SavedPost{PostView: p, IsBookmarked: true, BookmarkedAt: e.CreatedAt})
	}
	return result, nil
}

func (s *service) Status(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	ids := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > maxStatusIDs {
		return nil, fmt.Errorf("%w: at most %d postIds", bookmarkerrors.ErrInvalidRequest, maxStatusIDs)
	}

	found, err := s.repo.GetMapByUserAndPosts(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("get bookmark map: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = found[id]
	}
	return out, nil
}
