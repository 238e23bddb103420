package repository

import (
	"context"
	"sort"
	"sync"

	followerrors "github.com/limitedgamerz39-afk/friendflix/follows/errors"
	"github.com/limitedgamerz39-afk/friendflix/follows/models"
	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
)

// MemoryRepository is an in-process Repository for tests and local runs.
type MemoryRepository struct {
	mu    sync.RWMutex
	edges map[[2]string]models.Follow
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{edges: make(map[[2]string]models.Follow)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Create(_ context.Context, f *models.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{f.FollowerID, f.FollowingID}
	if _, ok := r.edges[key]; ok {
		return followerrors.ErrAlreadyFollowing
	}
	r.edges[key] = *f
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, followerID, followingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{followerID, followingID}
	if _, ok := r.edges[key]; !ok {
		return false, nil
	}
	delete(r.edges, key)
	return true, nil
}

func (r *MemoryRepository) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.edges[[2]string{followerID, followingID}]
	return ok, nil
}

func (r *MemoryRepository) CountFollowers(_ context.Context, userID string) (int64, error) {
	return int64(len(r.match(func(f models.Follow) bool { return f.FollowingID == userID }))), nil
}

func (r *MemoryRepository) CountFollowing(_ context.Context, userID string) (int64, error) {
	return int64(len(r.match(func(f models.Follow) bool { return f.FollowerID == userID }))), nil
}

func (r *MemoryRepository) ListFollowers(_ context.Context, userID string, page, limit int) ([]*models.Follow, int64, error) {
	all := r.match(func(f models.Follow) bool { return f.FollowingID == userID })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *MemoryRepository) ListFollowing(_ context.Context, userID string, page, limit int) ([]*models.Follow, int64, error) {
	all := r.match(func(f models.Follow) bool { return f.FollowerID == userID })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *MemoryRepository) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	all := r.match(func(f models.Follow) bool { return f.FollowerID == userID })
	ids := make([]string, 0, len(all))
	for _, f := range all {
		ids = append(ids, f.FollowingID)
	}
	return ids, nil
}

// match returns the edges accepted by keep, newest first.
func (r *MemoryRepository) match(keep func(models.Follow) bool) []*models.Follow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Follow{}
	for _, f := range r.edges {
		if keep(f) {
			f := f
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func paginate(all []*models.Follow, page, limit int) []*models.Follow {
	start := int(mongodb.Skip(page, limit))
	if start >= len(all) {
		return []*models.Follow{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
