package services

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/metrics"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	notifyerrors "github.com/limitedgamerz39-afk/friendflix/notifications/errors"
	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
	"github.com/limitedgamerz39-afk/friendflix/notifications/push"
	"github.com/limitedgamerz39-afk/friendflix/notifications/repository"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	pushTimeout = 10 * time.Second
)

// Service defines notification operations.
type Service interface {
	// Notify creates a notification unless recipient and sender are the same user.
	// It satisfies the Notifier dependency of posts, follows and messages.
	Notify(ctx context.Context, recipientID, senderID, kind, relatedID, message string) error

	List(ctx context.Context, recipientID string, page, limit int) (*models.NotificationsPage, error)
	MarkAsRead(ctx context.Context, id, recipientID string) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	Subscribe(ctx context.Context, userID string, req *models.SubscribeRequest) error
}

type Dependencies struct {
	Repo    repository.Repository
	Push    repository.PushRepository
	Sender  push.Sender
	Emitter realtime.Emitter
	Events  events.Publisher
	Metrics *metrics.Metrics
}

type service struct {
	repo    repository.Repository
	subs    repository.PushRepository
	sender  push.Sender
	emitter realtime.Emitter
	events  events.Publisher
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService builds the service. Web push is active only when both Push and Sender are set.
func NewService(deps Dependencies) Service {
	s := &service{
		repo:    deps.Repo,
		subs:    deps.Push,
		sender:  deps.Sender,
		emitter: deps.Emitter,
		events:  deps.Events,
		metrics: deps.Metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.emitter == nil {
		s.emitter = realtime.NopEmitter{}
	}
	return s
}

func (s *service) Notify(ctx context.Context, recipientID, senderID, kind, relatedID, message string) error {
	if recipientID == "" || recipientID == senderID {
		return nil
	}
	t := models.NotificationType(kind)
	if !t.Valid() {
		return notifyerrors.Validationf("unknown notification type %q", kind)
	}

	n := &models.Notification{
		ID:          uuid.Must(uuid.NewV4()).String(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        t,
		RelatedID:   relatedID,
		Message:     message,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.Notifications.WithLabelValues(kind).Inc()
	}

	s.emitter.EmitToUser(recipientID, realtime.EventNewNotification, n)
	events.Emit(s.events, events.NewEvent(events.NotificationCreated, recipientID, map[string]interface{}{
		"notificationId": n.ID,
		"recipient":      recipientID,
		"sender":         senderID,
		"type":           kind,
		"relatedId":      relatedID,
	}))

	if s.sender != nil && s.subs != nil && !s.emitter.IsOnline(recipientID) {
		go s.deliverPush(n)
	}
	return nil
}

// deliverPush sends n to every subscription of its recipient and prunes gone endpoints.
func (s *service) deliverPush(n *models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	subs, err := s.subs.Subscriptions(ctx, n.RecipientID)
	if err != nil {
		log.Error("load push subscriptions for %s: %v", n.RecipientID, err)
		return
	}
	if len(subs) == 0 {
		return
	}
	payload, err := push.Encode(n)
	if err != nil {
		log.Error("encode push payload %s: %v", n.ID, err)
		return
	}
	for _, sub := range subs {
		gone, err := s.sender.Send(ctx, sub, payload)
		switch {
		case gone:
			s.countPush("expired")
			log.Info("push subscription for %s expired, removing", n.RecipientID)
			if err := s.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
				log.Warn("remove push subscription: %v", err)
			}
		case err != nil:
			s.countPush("failed")
			log.Warn("push to %s failed: %v", n.RecipientID, err)
		default:
			s.countPush("sent")
		}
	}
}

func (s *service) countPush(result string) {
	if s.metrics != nil {
		s.metrics.PushDeliveries.WithLabelValues(result).Inc()
	}
}

func (s *service) List(ctx context.Context, recipientID string, page, limit int) (*models.NotificationsPage, error) {
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)
	items, total, err := s.repo.List(ctx, recipientID, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.NotificationsPage{Notifications: items, PageResult: types.NewPageResult(page, limit, total)}, nil
}

func (s *service) MarkAsRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

func (s *service) Subscribe(ctx context.Context, userID string, req *models.SubscribeRequest) error {
	endpoint := strings.TrimSpace(req.Endpoint)
	if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
		return notifyerrors.Validationf("endpoint must be an http(s) URL")
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return notifyerrors.Validationf("keys.p256dh and keys.auth are required")
	}
	if s.subs == nil {
		return notifyerrors.Validationf("push notifications are not enabled")
	}
	return s.subs.SaveSubscription(ctx, &models.PushSubscription{
		ID:        uuid.Must(uuid.NewV4()).String(),
		UserID:    userID,
		Endpoint:  endpoint,
		Keys:      req.Keys,
		CreatedAt: s.now(),
	})
}
