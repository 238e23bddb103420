package realtime

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
)

// Inbound event names.
const (
	inAuthenticate    = "authenticate"
	inSendMessage     = "sendMessage"
	inLiveOffer       = "liveStream:offer"
	inLiveAnswer      = "liveStream:answer"
	inLiveCandidate   = "liveStream:candidate"
	inLiveEnd         = "liveStream:end"
	outError          = "error"
	outAuthenticated  = "authenticated"
	maxInboundMessage = 64 * 1024
)

const authLocal = "realtimeUser"

// HandlerConfig configures the socket endpoint.
type HandlerConfig struct {
	PublicKey    string
	PingInterval time.Duration
	SendBuffer   int
}

// Handler serves the /ws endpoint.
type Handler struct {
	hub *Hub
	cfg HandlerConfig
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &Handler{hub: hub, cfg: cfg}
}

// Upgrade rejects non-websocket requests and pre-authenticates a handshake token when present.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if token := authjwt.TokenFromRequest(c); token != "" {
		user, err := authjwt.ValidateToken(token, h.cfg.PublicKey, types.ClaimKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token",
				"details": err.Error(),
			})
		}
		c.Locals(authLocal, user.UserID.String())
	}
	return c.Next()
}

// Serve returns the websocket handler.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(h.serveConn)
}

// inbound is a decoded client frame.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type authenticatePayload struct {
	Token string `json:"token"`
}

type signalPayload struct {
	TargetUserID string          `json:"targetUserId"`
	StreamID     string          `json:"streamId,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

func (h *Handler) serveConn(conn *websocket.Conn) {
	var client *Client
	if uid, ok := conn.Locals(authLocal).(string); ok && uid != "" {
		client = h.attach(uid)
		go h.writeLoop(conn, client)
		h.hub.offer(client, mustEncode(outAuthenticated, fiber.Map{"userId": uid}))
	}
	defer func() {
		if client != nil {
			h.hub.Unregister(client)
		}
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxInboundMessage)
	readWait := 2 * h.cfg.PingInterval
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(conn, client, outError, fiber.Map{"message": "malformed frame"})
			continue
		}

		if msg.Event == inAuthenticate {
			if client != nil {
				continue
			}
			var p authenticatePayload
			_ = json.Unmarshal(msg.Data, &p)
			user, err := authjwt.ValidateToken(p.Token, h.cfg.PublicKey, types.ClaimKey)
			if err != nil {
				h.reply(conn, nil, outError, fiber.Map{"message": "authentication failed"})
				continue
			}
			client = h.attach(user.UserID.String())
			go h.writeLoop(conn, client)
			h.hub.offer(client, mustEncode(outAuthenticated, fiber.Map{"userId": client.UserID}))
			continue
		}

		if client == nil {
			h.reply(conn, nil, outError, fiber.Map{"message": "authenticate first"})
			continue
		}
		h.dispatch(client, msg)
	}
}

func (h *Handler) attach(userID string) *Client {
	client := NewClient(userID, h.cfg.SendBuffer)
	h.hub.Register(client)
	log.Debug("Socket connected for user %s (%s)", userID, client.ID)
	return client
}

// dispatch routes an authenticated client frame. The sender is always the socket owner.
func (h *Handler) dispatch(from *Client, msg inbound) {
	switch msg.Event {
	case inSendMessage:
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		receiver, _ := payload["receiverId"].(string)
		if receiver == "" {
			return
		}
		payload["senderId"] = from.UserID
		h.hub.EmitToUser(receiver, EventNewMessage, payload)

	case inLiveOffer, inLiveAnswer, inLiveCandidate, inLiveEnd:
		var p signalPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.TargetUserID == "" {
			return
		}
		h.hub.EmitToUser(p.TargetUserID, msg.Event, fiber.Map{
			"fromUserId": from.UserID,
			"streamId":   p.StreamID,
			"payload":    p.Payload,
		})

	default:
		log.Debug("Ignoring socket event %q from %s", msg.Event, from.UserID)
	}
}

// reply answers on the connection. Before authentication there is no write loop, so
// writes go straight to the socket.
func (h *Handler) reply(conn *websocket.Conn, client *Client, event string, data interface{}) {
	frame := mustEncode(event, data)
	if client != nil {
		h.hub.offer(client, frame)
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, frame)
}

func (h *Handler) writeLoop(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-client.Outbound():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}

func mustEncode(event string, data interface{}) []byte {
	frame, err := encode(event, data)
	if err != nil {
		frame, _ = encode(outError, fiber.Map{"message": "encode failed"})
	}
	return frame
}
