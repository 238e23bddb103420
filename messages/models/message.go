package models

import (
	"time"

	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

const MaxContentLength = 5000

type MessageType string

const (
	TypeText  MessageType = "text"
	TypeImage MessageType = "image"
	TypeVoice MessageType = "voice"
)

func (t MessageType) Valid() bool {
	return t == TypeText || t == TypeImage || t == TypeVoice
}

// DeletedFor records which party hid a message. Empty means visible to both.
type DeletedFor string

const (
	DeletedForNone     DeletedFor = ""
	DeletedForSender   DeletedFor = "sender"
	DeletedForReceiver DeletedFor = "receiver"
	DeletedForBoth     DeletedFor = "both"
)

type Message struct {
	ID          string      `json:"id" bson:"_id"`
	SenderID    string      `json:"sender" bson:"sender"`
	ReceiverID  string      `json:"receiver" bson:"receiver"`
	Content     string      `json:"content" bson:"content"`
	MediaID     string      `json:"mediaId,omitempty" bson:"mediaId,omitempty"`
	MessageType MessageType `json:"messageType" bson:"messageType"`
	Read        bool        `json:"isRead" bson:"isRead"`
	DeletedFor  DeletedFor  `json:"deletedFor,omitempty" bson:"deletedFor"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
}

// Role reports whether userID sent or received m. ok is false for outsiders.
func (m *Message) Role(userID string) (role DeletedFor, ok bool) {
	switch userID {
	case m.SenderID:
		return DeletedForSender, true
	case m.ReceiverID:
		return DeletedForReceiver, true
	}
	return DeletedForNone, false
}

// VisibleTo reports whether userID is a party to m and has not hidden it.
func (m *Message) VisibleTo(userID string) bool {
	role, ok := m.Role(userID)
	if !ok {
		return false
	}
	return m.DeletedFor != role && m.DeletedFor != DeletedForBoth
}

// Counterpart returns the other party of m as seen by userID.
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

type MessageView struct {
	Message      `bson:",inline"`
	SenderUser   *profilemodels.Summary `json:"senderUser,omitempty"`
	ReceiverUser *profilemodels.Summary `json:"receiverUser,omitempty"`
}

// Conversation summarizes the thread with one counterpart.
type Conversation struct {
	User        profilemodels.Summary `json:"user"`
	LastMessage Message               `json:"lastMessage"`
	UnreadCount int64                 `json:"unreadCount"`
}

// ConversationRow is the repository aggregate behind a Conversation.
type ConversationRow struct {
	CounterpartID string  `bson:"_id"`
	LastMessage   Message `bson:"lastMessage"`
	UnreadCount   int64   `bson:"unreadCount"`
}

type SendMessageRequest struct {
	ReceiverID  string      `json:"receiverId"`
	Content     string      `json:"content"`
	MediaID     string      `json:"mediaId"`
	MessageType MessageType `json:"messageType"`
}

// DeleteScope selects who stops seeing a deleted message.
type DeleteScope string

const (
	DeleteForMe       DeleteScope = "me"
	DeleteForEveryone DeleteScope = "everyone"
)
