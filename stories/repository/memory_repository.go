package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	storyerrors "github.com/limitedgamerz39-afk/friendflix/stories/errors"
	"github.com/limitedgamerz39-afk/friendflix/stories/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	stories map[string]*models.Story
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stories: make(map[string]*models.Story)}
}

var _ Repository = (*MemoryRepository)(nil)

func clone(s *models.Story) *models.Story {
	c := *s
	c.Viewers = append([]models.Viewer{}, s.Viewers...)
	return &c
}

func (r *MemoryRepository) Create(_ context.Context, s *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories[s.ID] = clone(s)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stories[id]
	if !ok {
		return nil, storyerrors.ErrStoryNotFound
	}
	return clone(s), nil
}

func (r *MemoryRepository) Active(_ context.Context, ownerID string, now time.Time) ([]*models.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Story{}
	for _, s := range r.stories {
		if s.Expired(now) || (ownerID != "" && s.OwnerID != ownerID) {
			continue
		}
		out = append(out, clone(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) AddViewer(_ context.Context, id string, viewer models.Viewer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return false, nil
	}
	for _, v := range s.Viewers {
		if v.UserID == viewer.UserID {
			return false, nil
		}
	}
	s.Viewers = append(s.Viewers, viewer)
	return true, nil
}

func (r *MemoryRepository) DeleteOwned(_ context.Context, id, ownerID string) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok || s.OwnerID != ownerID {
		return nil, storyerrors.ErrStoryNotFound
	}
	delete(r.stories, id)
	return s, nil
}
