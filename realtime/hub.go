package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/metrics"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
)

// Event names pushed to clients.
const (
	EventNewNotification      = "newNotification"
	EventNewMessage           = "newMessage"
	EventMediaUploadCompleted = "mediaUploadCompleted"
	EventPostLiked            = "postLiked"
	EventPostCommented        = "postCommented"
	EventUserFollowed         = "userFollowed"
	EventUserUnfollowed       = "userUnfollowed"
	EventStoryCreated         = "storyCreated"
	EventMessageDeleted       = "messageDeleted"
)

// Envelope is the wire frame for every socket message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Emitter is the push surface services depend on.
type Emitter interface {
	EmitToUser(userID, event string, data interface{})
	EmitToAll(event string, data interface{})
	IsOnline(userID string) bool
}

// Client is one live connection. A user may hold several.
type Client struct {
	ID     string
	UserID string
	send   chan []byte
	once   sync.Once
}

func NewClient(userID string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	return &Client{
		ID:     uuid.Must(uuid.NewV4()).String(),
		UserID: userID,
		send:   make(chan []byte, buffer),
	}
}

// Outbound is drained by the connection's write loop.
func (c *Client) Outbound() <-chan []byte { return c.send }

func (c *Client) close() { c.once.Do(func() { close(c.send) }) }

// Hub maps user ids to their live connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	relay   *RedisRelay
	metrics *metrics.Metrics
}

// NewHub creates an empty registry. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		metrics: m,
	}
}

// UseRelay fans emits out through Redis so sockets on other instances receive them.
func (h *Hub) UseRelay(r *RedisRelay) {
	h.mu.Lock()
	h.relay = r
	h.mu.Unlock()
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	relay := h.relay
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SocketClients.Inc()
	}
	if relay != nil {
		relay.markOnline(c.UserID)
	}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, present := set[c]; !present {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	relay := h.relay
	h.mu.Unlock()

	c.close()
	if h.metrics != nil {
		h.metrics.SocketClients.Dec()
	}
	if relay != nil {
		relay.markOffline(c.UserID)
	}
}

// IsOnline reports whether the user holds a connection here or, with a relay, on any instance.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	_, ok := h.clients[userID]
	relay := h.relay
	h.mu.RUnlock()
	if ok {
		return true
	}
	if relay != nil {
		return relay.online(userID)
	}
	return false
}

// Connections returns the number of live connections for a user on this instance.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) EmitToUser(userID, event string, data interface{}) {
	frame, err := encode(event, data)
	if err != nil {
		log.Error("Socket encode failed for %s: %v", event, err)
		return
	}
	h.deliverToUser(userID, frame)

	if relay := h.currentRelay(); relay != nil {
		relay.publish(userID, frame)
	}
}

func (h *Hub) EmitToAll(event string, data interface{}) {
	frame, err := encode(event, data)
	if err != nil {
		log.Error("Socket encode failed for %s: %v", event, err)
		return
	}
	h.deliverToAll(frame)

	if relay := h.currentRelay(); relay != nil {
		relay.publish("", frame)
	}
}

func (h *Hub) currentRelay() *RedisRelay {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.relay
}

func (h *Hub) deliverToUser(userID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		h.offer(c, frame)
	}
}

func (h *Hub) deliverToAll(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			h.offer(c, frame)
		}
	}
}

// offer never blocks; a full buffer drops the frame.
func (h *Hub) offer(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		if h.metrics != nil {
			h.metrics.SocketDropped.Inc()
		}
		log.Warn("Dropped socket frame for user %s (buffer full)", c.UserID)
	}
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// NopEmitter discards everything. Used where no hub is wired.
type NopEmitter struct{}

func (NopEmitter) EmitToUser(string, string, interface{}) {}
func (NopEmitter) EmitToAll(string, interface{})          {}
func (NopEmitter) IsOnline(string) bool                   { return false }
