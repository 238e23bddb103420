package realtime

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the socket endpoint. Authentication happens in the
// handshake or through the authenticate event, never through the HTTP JWT middleware.
func RegisterRoutes(app fiber.Router, h *Handler) {
	app.Get("/ws", h.Upgrade, h.Serve())
}
