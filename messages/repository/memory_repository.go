package repository

import (
	"context"
	"sort"
	"sync"

	msgerrors "github.com/limitedgamerz39-afk/friendflix/messages/errors"
	"github.com/limitedgamerz39-afk/friendflix/messages/models"
)

// MemoryRepository is an in-process Repository for tests and local runs.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages map[string]models.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{messages: make(map[string]models.Message)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, msgerrors.ErrMessageNotFound
	}
	return &m, nil
}

// sorted returns the messages accepted by keep ordered by createdAt.
func (r *MemoryRepository) sorted(keep func(*models.Message) bool, newestFirst bool) []*models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Message{}
	for _, m := range r.messages {
		m := m
		if keep(&m) {
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *MemoryRepository) History(_ context.Context, userID, otherID string) ([]*models.Message, error) {
	return r.sorted(func(m *models.Message) bool {
		return m.VisibleTo(userID) && m.Counterpart(userID) == otherID
	}, false), nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, receiverID, senderID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			r.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Conversations(_ context.Context, userID string) ([]*models.ConversationRow, error) {
	rows := []*models.ConversationRow{}
	index := map[string]*models.ConversationRow{}
	for _, m := range r.sorted(func(m *models.Message) bool { return m.VisibleTo(userID) }, true) {
		other := m.Counterpart(userID)
		row, ok := index[other]
		if !ok {
			row = &models.ConversationRow{CounterpartID: other, LastMessage: *m}
			index[other] = row
			rows = append(rows, row)
		}
		if m.ReceiverID == userID && !m.Read {
			row.UnreadCount++
		}
	}
	return rows, nil
}

func (r *MemoryRepository) SetDeletedFor(_ context.Context, id string, from, to models.DeletedFor) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok || m.DeletedFor != from {
		return false, nil
	}
	m.DeletedFor = to
	r.messages[id] = m
	return true, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	return nil
}
