// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"sync"
	"time"

	profileerrors "github.com/limitedgamerz39-afk/friendflix/profile/errors"
	"github.com/limitedgamerz39-afk/friendflix/profile/models"
)

// MemoryProfileRepository is an in-process ProfileRepository for tests and local runs.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]models.Profile)}
}

var _ ProfileRepository = (*MemoryProfileRepository)(nil)

// Put stores a profile as-is.
func (r *MemoryProfileRepository) Put(p models.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
}

func (r *MemoryProfileRepository) FindByID(_ context.Context, userID string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, profileerrors.ErrProfileNotFound
	}
	return &p, nil
}

func (r *MemoryProfileRepository) FindBySocialName(_ context.Context, socialName string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.SocialName == socialName {
			p := p
			return &p, nil
		}
	}
	return nil, profileerrors.ErrProfileNotFound
}

func (r *MemoryProfileRepository) FindByIDs(_ context.Context, userIDs []string) ([]*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Profile{}
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *MemoryProfileRepository) Exists(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r *MemoryProfileRepository) Upsert(_ context.Context, userID string, set map[string]interface{}, seed *models.Profile) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p, ok := r.profiles[userID]
	if !ok {
		if seed != nil {
			p = *seed
		}
		p.ID = userID
		p.CreatedAt = now
	}
	for k, v := range set {
		s, _ := v.(string)
		switch k {
		case "fullName":
			p.FullName = s
		case "socialName":
			p.SocialName = s
		case "avatar":
			p.Avatar = s
		case "banner":
			p.Banner = s
		case "tagLine":
			p.TagLine = s
		}
	}
	if p.SocialName != "" {
		for id, other := range r.profiles {
			if id != userID && other.SocialName == p.SocialName {
				return nil, profileerrors.ErrSocialNameTaken
			}
		}
	}
	p.UpdatedAt = now
	r.profiles[userID] = p
	return &p, nil
}
