// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
)

// Repository defines data access for notifications.
type Repository interface {
	Create(ctx context.Context, n *models.Notification) error

	// List returns the recipient's notifications newest first, joined with sender
	// summaries, and the total count.
	List(ctx context.Context, recipientID string, page, limit int) ([]*models.NotificationView, int64, error)

	// MarkRead flags one notification; ErrNotificationNotFound when it is missing or
	// addressed to someone else.
	MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error)

	// MarkAllRead flags every unread notification and returns how many changed.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)

	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

// PushRepository stores web push subscriptions.
type PushRepository interface {
	// SaveSubscription upserts by endpoint.
	SaveSubscription(ctx context.Context, sub *models.PushSubscription) error
	Subscriptions(ctx context.Context, userID string) ([]*models.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}
