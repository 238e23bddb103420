package notifications

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/notifications/handlers"
)

type Handlers struct {
	NotificationHandler *handlers.NotificationHandler
}

// RegisterRoutes wires notification endpoints.
func RegisterRoutes(app fiber.Router, handlers *Handlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/notifications", auth)

	group.Get("/", handlers.NotificationHandler.List)
	group.Get("/unread-count", handlers.NotificationHandler.UnreadCount)
	group.Put("/read-all", handlers.NotificationHandler.MarkAllAsRead)
	group.Get("/push/public-key", handlers.NotificationHandler.VapidPublicKey)
	group.Post("/push/subscribe", handlers.NotificationHandler.Subscribe)
	group.Put("/:notificationId/read", constraints.RequireUUID("notificationId"), handlers.NotificationHandler.MarkAsRead)
}
