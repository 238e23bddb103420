package models

import (
	"time"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

type NotificationType string

const (
	TypeFollow  NotificationType = "follow"
	TypeLike    NotificationType = "like"
	TypeComment NotificationType = "comment"
	TypeMessage NotificationType = "message"
	TypeStory   NotificationType = "story"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeFollow, TypeLike, TypeComment, TypeMessage, TypeStory:
		return true
	}
	return false
}

// Notification is addressed to RecipientID and never to its own sender.
type Notification struct {
	ID          string           `json:"id" bson:"_id"`
	RecipientID string           `json:"recipient" bson:"recipient"`
	SenderID    string           `json:"sender" bson:"sender"`
	Type        NotificationType `json:"type" bson:"type"`
	RelatedID   string           `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	Message     string           `json:"message" bson:"message"`
	Read        bool             `json:"read" bson:"read"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
}

// NotificationView is a notification with the sender's profile summary.
type NotificationView struct {
	Notification `bson:",inline"`
	SenderUser   *profilemodels.Summary `json:"senderUser,omitempty" bson:"senderUser,omitempty"`
}

type NotificationsPage struct {
	Notifications []*NotificationView `json:"notifications"`
	types.PageResult
}

type PushKeys struct {
	P256dh string `json:"p256dh" bson:"p256dh"`
	Auth   string `json:"auth" bson:"auth"`
}

// PushSubscription is one browser endpoint registered for web push.
type PushSubscription struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Endpoint  string    `json:"endpoint" bson:"endpoint"`
	Keys      PushKeys  `json:"keys" bson:"keys"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type SubscribeRequest struct {
	Endpoint string   `json:"endpoint"`
	Keys     PushKeys `json:"keys"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
