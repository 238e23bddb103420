package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/metrics"
)

func readFrame(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.Outbound():
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected a queued frame")
		return Envelope{}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(nil)
	a := NewClient("u1", 4)
	b := NewClient("u1", 4)

	hub.Register(a)
	hub.Register(b)
	assert.True(t, hub.IsOnline("u1"))
	assert.Equal(t, 2, hub.Connections("u1"))

	hub.Unregister(a)
	assert.True(t, hub.IsOnline("u1"))

	hub.Unregister(b)
	hub.Unregister(b)
	assert.False(t, hub.IsOnline("u1"))

	_, open := <-b.Outbound()
	assert.False(t, open)
}

func TestEmitToUser(t *testing.T) {
	hub := NewHub(nil)
	target := NewClient("u1", 4)
	other := NewClient("u2", 4)
	hub.Register(target)
	hub.Register(other)

	hub.EmitToUser("u1", EventNewNotification, map[string]string{"message": "hi"})

	env := readFrame(t, target)
	assert.Equal(t, EventNewNotification, env.Event)
	assert.JSONEq(t, `{"message":"hi"}`, string(env.Data))
	assert.Len(t, other.Outbound(), 0)

	hub.EmitToUser("nobody", EventNewNotification, nil)
}

func TestEmitToAll(t *testing.T) {
	hub := NewHub(nil)
	a := NewClient("u1", 4)
	b := NewClient("u2", 4)
	hub.Register(a)
	hub.Register(b)

	hub.EmitToAll(EventMediaUploadCompleted, map[string]string{"mediaId": "m1"})

	assert.Equal(t, EventMediaUploadCompleted, readFrame(t, a).Event)
	assert.Equal(t, EventMediaUploadCompleted, readFrame(t, b).Event)
}

func TestEmitDropsWhenBufferFull(t *testing.T) {
	m := metrics.New()
	hub := NewHub(m)
	c := NewClient("u1", 1)
	hub.Register(c)

	hub.EmitToUser("u1", EventPostLiked, 1)
	hub.EmitToUser("u1", EventPostLiked, 2)

	assert.Len(t, c.Outbound(), 1)
	assert.Equal(t, `1`, string(readFrame(t, c).Data))
}

func TestDispatchSendMessageUsesSocketOwner(t *testing.T) {
	hub := NewHub(nil)
	h := NewHandler(hub, HandlerConfig{})
	sender := NewClient("alice", 4)
	receiver := NewClient("bob", 4)
	hub.Register(sender)
	hub.Register(receiver)

	h.dispatch(sender, inbound{
		Event: inSendMessage,
		Data:  json.RawMessage(`{"receiverId":"bob","senderId":"mallory","content":"hey"}`),
	})

	env := readFrame(t, receiver)
	assert.Equal(t, EventNewMessage, env.Event)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "alice", payload["senderId"])
	assert.Equal(t, "hey", payload["content"])
}

func TestDispatchLiveStreamSignal(t *testing.T) {
	hub := NewHub(nil)
	h := NewHandler(hub, HandlerConfig{})
	host := NewClient("host", 4)
	viewer := NewClient("viewer", 4)
	hub.Register(host)
	hub.Register(viewer)

	h.dispatch(host, inbound{
		Event: inLiveOffer,
		Data:  json.RawMessage(`{"targetUserId":"viewer","streamId":"s1","payload":{"sdp":"x"}}`),
	})

	env := readFrame(t, viewer)
	assert.Equal(t, inLiveOffer, env.Event)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "host", payload["fromUserId"])
	assert.Equal(t, "s1", payload["streamId"])

	h.dispatch(host, inbound{Event: inLiveEnd, Data: json.RawMessage(`{}`)})
	assert.Len(t, viewer.Outbound(), 0)
}

func TestUpgradeRequiresWebsocket(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, NewHandler(NewHub(nil), HandlerConfig{}))

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestNopEmitter(t *testing.T) {
	var e Emitter = NopEmitter{}
	e.EmitToAll("x", nil)
	e.EmitToUser("u", "x", nil)
	assert.False(t, e.IsOnline("u"))
}
