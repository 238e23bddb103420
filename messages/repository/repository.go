// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/limitedgamerz39-afk/friendflix/messages/models"
)

// Repository defines data access for direct messages.
type Repository interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)

	// History returns the messages between userID and otherID that userID can still
	// see, oldest first.
	History(ctx context.Context, userID, otherID string) ([]*models.Message, error)

	// MarkRead flags every unread message from senderID to receiverID.
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)

	// Conversations returns one row per counterpart, most recent first.
	Conversations(ctx context.Context, userID string) ([]*models.ConversationRow, error)

	// SetDeletedFor moves deletedFor from one value to another; false when the
	// message changed underneath.
	SetDeletedFor(ctx context.Context, id string, from, to models.DeletedFor) (bool, error)

	Delete(ctx context.Context, id string) error
}
