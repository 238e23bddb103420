package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	mediaerrors "github.com/limitedgamerz39-afk/friendflix/media/errors"
	"github.com/limitedgamerz39-afk/friendflix/media/models"
)

// MemoryRepository mirrors the Mongo semantics in process. Each method holds the lock for
// the whole read-modify-write, matching the single-document atomicity of the store.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*models.Media
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.Media)}
}

var _ Repository = (*MemoryRepository)(nil)

func clone(m *models.Media) *models.Media {
	c := *m
	c.Chunks = append([]models.Chunk{}, m.Chunks...)
	if m.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(m.Metadata))
		for k, v := range m.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func (r *MemoryRepository) Create(_ context.Context, m *models.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = clone(m)
	return nil
}

// Put stores a record as-is, for seeding tests.
func (r *MemoryRepository) Put(m *models.Media) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = clone(m)
}

func (r *MemoryRepository) owned(id, ownerID string) (*models.Media, bool) {
	m, ok := r.items[id]
	if !ok || m.OwnerID != ownerID {
		return nil, false
	}
	return m, true
}

func (r *MemoryRepository) FindOwned(_ context.Context, id, ownerID string) (*models.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.owned(id, ownerID)
	if !ok {
		return nil, mediaerrors.ErrMediaNotFound
	}
	return clone(m), nil
}

func (r *MemoryRepository) FindByIDs(_ context.Context, ids []string) ([]*models.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Media{}
	for _, id := range ids {
		if m, ok := r.items[id]; ok {
			out = append(out, clone(m))
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string, limit int) ([]*models.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Media{}
	for _, m := range r.items {
		if m.OwnerID == ownerID {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) UpsertChunk(_ context.Context, id, ownerID string, chunk models.Chunk) (*models.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.owned(id, ownerID)
	if !ok {
		return nil, mediaerrors.ErrMediaNotFound
	}
	if m.UploadStatus == models.StatusFailed {
		return nil, mediaerrors.ErrUploadFailed
	}
	kept := m.Chunks[:0:0]
	for _, c := range m.Chunks {
		if c.ChunkNumber != chunk.ChunkNumber {
			kept = append(kept, c)
		}
	}
	m.Chunks = append(kept, chunk)
	if !m.UploadStatus.Terminal() {
		m.UploadStatus = models.StatusUploading
	}
	m.UpdatedAt = chunk.UploadedAt
	return clone(m), nil
}

func (r *MemoryRepository) MarkCompleted(_ context.Context, id, ownerID string, u models.FinalizeUpdate) (*models.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.owned(id, ownerID)
	if !ok {
		return nil, finalizeMiss(nil)
	}
	if m.UploadStatus.Closed() || len(m.Chunks) != m.TotalChunks {
		return nil, finalizeMiss(clone(m))
	}
	uploadedAt := u.UploadedAt
	m.URL = u.URL
	m.Caption = u.Caption
	m.UploadType = u.UploadType
	m.UploadStatus = models.StatusCompleted
	m.Metadata = u.Metadata
	m.UploadedAt = &uploadedAt
	m.UpdatedAt = time.Now().UTC()
	if u.ProcessingStatus != "" {
		m.ProcessingStatus = u.ProcessingStatus
	}
	return clone(m), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owned(id, ownerID); !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}
