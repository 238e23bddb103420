package messages

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/ratelimit"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/messages/handlers"
)

type Handlers struct {
	MessageHandler *handlers.MessageHandler
}

// RegisterRoutes wires direct message endpoints.
func RegisterRoutes(app fiber.Router, handlers *Handlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/messages", auth)
	sendLimit := ratelimit.Optional(cfg.RateLimits.Message.Enabled, ratelimit.Config{
		Name:       "message",
		Max:        cfg.RateLimits.Message.Max,
		Expiration: cfg.RateLimits.Message.Duration,
	})

	group.Post("/", sendLimit, handlers.MessageHandler.Send)
	group.Get("/conversations", handlers.MessageHandler.Conversations)
	group.Get("/:userId", constraints.RequireUUID("userId"), handlers.MessageHandler.History)
	group.Delete("/:messageId", constraints.RequireUUID("messageId"), handlers.MessageHandler.Delete)
}
