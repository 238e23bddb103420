// Package push delivers notifications to offline users over Web Push.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
)

// Payload is the JSON body shown by the service worker.
type Payload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Sender delivers one payload to one subscription. gone reports an endpoint the push
// service no longer accepts.
type Sender interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) (gone bool, err error)
}

// WebPushSender signs requests with the configured VAPID key pair.
type WebPushSender struct {
	cfg    platformconfig.PushConfig
	client *http.Client
}

func NewWebPushSender(cfg platformconfig.PushConfig) *WebPushSender {
	if cfg.TTL <= 0 {
		cfg.TTL = 30
	}
	return &WebPushSender{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *WebPushSender) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) (bool, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.Keys.P256dh, Auth: sub.Keys.Auth},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTL,
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return true, fmt.Errorf("push endpoint gone: %s", resp.Status)
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("push rejected: %s", resp.Status)
	}
	return false, nil
}

// Encode renders a notification as a push payload.
func Encode(n *models.Notification) ([]byte, error) {
	return json.Marshal(Payload{
		Title: "friendflix",
		Body:  n.Message,
		Data: map[string]interface{}{
			"type":           n.Type,
			"relatedId":      n.RelatedID,
			"notificationId": n.ID,
			"timestamp":      n.CreatedAt.Unix(),
		},
	})
}
