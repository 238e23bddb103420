// Package events publishes domain events for consumers outside the API process
// (transcoding workers, analytics). Delivery is best-effort.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type EventType string

const (
	MediaUploadInitialized EventType = "media.upload.initialized"
	MediaUploadCompleted   EventType = "media.upload.completed"
	MediaProcessingQueued  EventType = "media.processing.queued"
	MediaDeleted           EventType = "media.deleted"
	PostCreated            EventType = "post.created"
	PostLiked              EventType = "post.liked"
	PostCommented          EventType = "post.commented"
	UserFollowed           EventType = "user.followed"
	NotificationCreated    EventType = "notification.created"
	MessageSent            EventType = "message.sent"
	StoryCreated           EventType = "story.created"
)

// Source identifies this service in published events.
const Source = "friendflix-api"

type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Key       string                 `json:"key"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent builds an event. key groups related events onto one partition, usually the
// id of the aggregate (media id, post id).
func NewEvent(eventType EventType, key string, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.Must(uuid.NewV4()).String(),
		Type:      eventType,
		Key:       key,
		Timestamp: time.Now().UTC(),
		Source:    Source,
		Data:      data,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evt *Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }
func (NopPublisher) Close() error                          { return nil }

// MemoryPublisher records events in order; handy in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func (m *MemoryPublisher) Publish(_ context.Context, evt *Event) error {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (m *MemoryPublisher) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// OfType returns the recorded events of one type.
func (m *MemoryPublisher) OfType(t EventType) []*Event {
	var out []*Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
