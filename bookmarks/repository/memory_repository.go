package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[[2]string]models.Bookmark
	last time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[[2]string]models.Bookmark)}
}

var _ Repository = (*MemoryRepository)(nil)

// tick returns strictly increasing times so insertion order is preserved.
func (r *MemoryRepository) tick() time.Time {
	now := time.Now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Millisecond)
	}
	r.last = now
	return now
}

func (r *MemoryRepository) AddBookmark(_ context.Context, userID, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, postID}
	if _, ok := r.rows[key]; ok {
		return false, nil
	}
	r.rows[key] = models.Bookmark{UserID: userID, PostID: postID, CreatedAt: r.tick()}
	return true, nil
}

func (r *MemoryRepository) RemoveBookmark(_ context.Context, userID, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, postID}
	if _, ok := r.rows[key]; !ok {
		return false, nil
	}
	delete(r.rows, key)
	return true, nil
}

func (r *MemoryRepository) GetMapByUserAndPosts(_ context.Context, userID string, postIDs []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		if _, ok := r.rows[[2]string{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindMyBookmarks(_ context.Context, userID string, page, limit int) ([]models.Bookmark, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []models.Bookmark{}
	for _, b := range r.rows {
		if b.UserID == userID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := int(mongodb.Skip(page, limit))
	if start >= len(all) {
		return []models.Bookmark{}, int64(len(all)), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}
