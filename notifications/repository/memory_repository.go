package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	notifyerrors "github.com/limitedgamerz39-afk/friendflix/notifications/errors"
	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

// UserResolver resolves sender summaries. Satisfied by the profile service.
type UserResolver interface {
	GetSummaries(ctx context.Context, userIDs []string) (map[string]profilemodels.Summary, error)
}

// MemoryRepository keeps notifications and push subscriptions in process.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Notification
	subs  map[string]models.PushSubscription
	users UserResolver
}

// NewMemoryRepository builds a store that joins senders through users, which may be nil.
func NewMemoryRepository(users UserResolver) *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]models.Notification),
		subs:  make(map[string]models.PushSubscription),
		users: users,
	}
}

var (
	_ Repository     = (*MemoryRepository)(nil)
	_ PushRepository = (*MemoryRepository)(nil)
)

func (r *MemoryRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = *n
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, recipientID string, page, limit int) ([]*models.NotificationView, int64, error) {
	r.mu.RLock()
	all := []models.Notification{}
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			all = append(all, n)
		}
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	out := []*models.NotificationView{}
	start := int(mongodb.Skip(page, limit))
	if start >= len(all) {
		return out, int64(len(all)), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	window := all[start:end]

	summaries := map[string]profilemodels.Summary{}
	if r.users != nil {
		ids := make([]string, 0, len(window))
		for _, n := range window {
			ids = append(ids, n.SenderID)
		}
		found, err := r.users.GetSummaries(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		summaries = found
	}
	for _, n := range window {
		view := &models.NotificationView{Notification: n}
		if s, ok := summaries[n.SenderID]; ok {
			s := s
			view.SenderUser = &s
		}
		out = append(out, view)
	}
	return out, int64(len(all)), nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, id, recipientID string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return nil, notifyerrors.ErrNotificationNotFound
	}
	n.Read = true
	r.items[id] = n
	return &n, nil
}

func (r *MemoryRepository) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for id, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			r.items[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryRepository) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, item := range r.items {
		if item.RecipientID == recipientID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) SaveSubscription(_ context.Context, sub *models.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.subs[sub.Endpoint]; ok {
		existing.UserID = sub.UserID
		existing.Keys = sub.Keys
		r.subs[sub.Endpoint] = existing
		return nil
	}
	r.subs[sub.Endpoint] = *sub
	return nil
}

func (r *MemoryRepository) Subscriptions(_ context.Context, userID string) ([]*models.PushSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.PushSubscription{}
	for _, s := range r.subs {
		if s.UserID == userID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out, nil
}

func (r *MemoryRepository) DeleteSubscription(_ context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, endpoint)
	return nil
}
