// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	mediamodels "github.com/limitedgamerz39-afk/friendflix/media/models"
	postsErrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

// MediaResolver resolves media references. Satisfied by the media service.
type MediaResolver interface {
	GetMediaByIDs(ctx context.Context, ids []string) ([]*mediamodels.Media, error)
}

// UserResolver resolves owner summaries. Satisfied by the profile service.
type UserResolver interface {
	GetSummaries(ctx context.Context, userIDs []string) (map[string]profilemodels.Summary, error)
}

// MemoryPostRepository keeps posts in process and performs the same join and
// displayability rules as the aggregation pipeline. Resolvers may be nil.
type MemoryPostRepository struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	media MediaResolver
	users UserResolver
}

func NewMemoryPostRepository(media MediaResolver, users UserResolver) *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]*models.Post), media: media, users: users}
}

var _ PostRepository = (*MemoryPostRepository)(nil)

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.MediaIDs = append([]string{}, p.MediaIDs...)
	c.Likes = append([]string{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}

func (r *MemoryPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *MemoryPostRepository) FindByID(_ context.Context, postID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, postsErrors.ErrPostNotFound
	}
	return clonePost(p), nil
}

func matches(p *models.Post, f models.PostFilter) bool {
	if len(f.OwnerIDs) > 0 {
		found := false
		for _, id := range f.OwnerIDs {
			if p.OwnerID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.PostType != "" && p.PostType != f.PostType {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.CreatedAfter != nil && p.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	return true
}

func (r *MemoryPostRepository) snapshot(keep func(*models.Post) bool) []*models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Post{}
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	return out
}

func (r *MemoryPostRepository) resolve(ctx context.Context, p *models.Post) ([]mediamodels.Summary, error) {
	refs := p.References()
	if len(refs) == 0 || r.media == nil {
		return nil, nil
	}
	found, err := r.media.GetMediaByIDs(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]mediamodels.Summary, 0, len(found))
	for _, m := range found {
		out = append(out, m.Summary())
	}
	return out, nil
}

func (r *MemoryPostRepository) join(ctx context.Context, p *models.Post, resolved []mediamodels.Summary) (*models.PostView, error) {
	view := &models.PostView{Post: *p, MediaItems: []mediamodels.Summary{}}
	for i := range resolved {
		m := resolved[i]
		if p.MediaID != "" && m.ID == p.MediaID {
			view.Media = &m
		}
		for _, id := range p.MediaIDs {
			if id == m.ID {
				view.MediaItems = append(view.MediaItems, m)
			}
		}
	}
	if r.users != nil {
		users, err := r.users.GetSummaries(ctx, []string{p.OwnerID})
		if err != nil {
			return nil, err
		}
		if u, ok := users[p.OwnerID]; ok {
			view.User = &u
		}
	}
	return view, nil
}

func (r *MemoryPostRepository) FindValid(ctx context.Context, filter models.PostFilter, page, limit int) ([]*models.PostView, int64, error) {
	candidates := r.snapshot(func(p *models.Post) bool { return matches(p, filter) })

	type resolvedPost struct {
		post  *models.Post
		media []mediamodels.Summary
	}
	valid := []resolvedPost{}
	for _, p := range candidates {
		media, err := r.resolve(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		if models.IsDisplayable(p, media) {
			valid = append(valid, resolvedPost{post: p, media: media})
		}
	}
	sort.Slice(valid, func(i, j int) bool {
		return newerFirst(valid[i].post, valid[j].post)
	})

	total := int64(len(valid))
	out := []*models.PostView{}
	start := mongodb.Skip(page, limit)
	if start >= total {
		return out, total, nil
	}
	end := start + int64(limit)
	if end > total {
		end = total
	}
	for i := start; i < end; i++ {
		view, err := r.join(ctx, valid[i].post, valid[i].media)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, view)
	}
	return out, total, nil
}

func (r *MemoryPostRepository) View(ctx context.Context, postID string) (*models.PostView, error) {
	p, err := r.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	media, err := r.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return r.join(ctx, p, media)
}

func (r *MemoryPostRepository) Views(ctx context.Context, postIDs []string) ([]*models.PostView, error) {
	out := []*models.PostView{}
	for _, id := range postIDs {
		view, err := r.View(ctx, id)
		if errors.Is(err, postsErrors.ErrPostNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (r *MemoryPostRepository) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, postsErrors.ErrPostNotFound
	}
	if p.LikedBy(userID) {
		kept := p.Likes[:0]
		for _, id := range p.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.Likes = kept
	} else {
		p.Likes = append(p.Likes, userID)
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (r *MemoryPostRepository) AddComment(_ context.Context, postID string, comment models.Comment) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, postsErrors.ErrPostNotFound
	}
	p.Comments = append(p.Comments, comment)
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, postID, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(r.posts, postID)
	return true, nil
}

// newerFirst mirrors mongodb.NewestFirst: createdAt descending, then id descending.
func newerFirst(a, b *models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
