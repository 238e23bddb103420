package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

const relayOpTimeout = 2 * time.Second

// relayFrame travels over the pub/sub channel. An empty UserID means broadcast.
type relayFrame struct {
	Origin  string          `json:"origin"`
	UserID  string          `json:"userId,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRelay forwards emits between API instances and tracks cross-instance presence.
type RedisRelay struct {
	client   *redis.Client
	sub      *redis.PubSub
	channel  string
	instance string
	hub      *Hub
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRedisRelay connects, subscribes and attaches itself to hub.
func NewRedisRelay(ctx context.Context, cfg platformconfig.RealtimeConfig, hub *Hub) (*RedisRelay, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RelayAddress,
		Password: cfg.RelayPassword,
		DB:       cfg.RelayDB,
	})

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect realtime relay: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &RedisRelay{
		client:   client,
		channel:  cfg.RelayChannel,
		instance: uuid.Must(uuid.NewV4()).String(),
		hub:      hub,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	sub := client.Subscribe(runCtx, r.channel)
	if _, err := sub.Receive(pingCtx); err != nil {
		cancel()
		_ = client.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}

	r.sub = sub
	go r.listen()
	hub.UseRelay(r)
	log.Info("Realtime relay subscribed to %s", r.channel)
	return r, nil
}

func (r *RedisRelay) listen() {
	defer close(r.done)

	for msg := range r.sub.Channel() {
		var frame relayFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			log.Warn("Realtime relay dropped malformed frame: %v", err)
			continue
		}
		if frame.Origin == r.instance {
			continue
		}
		if frame.UserID == "" {
			r.hub.deliverToAll(frame.Payload)
		} else {
			r.hub.deliverToUser(frame.UserID, frame.Payload)
		}
	}
}

func (r *RedisRelay) publish(userID string, payload []byte) {
	body, err := json.Marshal(relayFrame{Origin: r.instance, UserID: userID, Payload: payload})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), relayOpTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		log.Warn("Realtime relay publish failed: %v", err)
	}
}

func (r *RedisRelay) presenceKey(userID string) string {
	return fmt.Sprintf("%s:presence:%s", r.channel, userID)
}

func (r *RedisRelay) markOnline(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), relayOpTimeout)
	defer cancel()
	if err := r.client.Incr(ctx, r.presenceKey(userID)).Err(); err != nil {
		log.Warn("Realtime presence update failed for %s: %v", userID, err)
	}
}

func (r *RedisRelay) markOffline(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), relayOpTimeout)
	defer cancel()
	n, err := r.client.Decr(ctx, r.presenceKey(userID)).Result()
	if err != nil {
		log.Warn("Realtime presence update failed for %s: %v", userID, err)
		return
	}
	if n <= 0 {
		_ = r.client.Del(ctx, r.presenceKey(userID)).Err()
	}
}

func (r *RedisRelay) online(userID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), relayOpTimeout)
	defer cancel()
	n, err := r.client.Get(ctx, r.presenceKey(userID)).Int64()
	return err == nil && n > 0
}

// Close stops the subscription and the client.
func (r *RedisRelay) Close() error {
	r.cancel()
	_ = r.sub.Close()
	<-r.done
	return r.client.Close()
}
