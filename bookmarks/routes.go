package bookmarks

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/bookmarks/handlers"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

type Handlers struct {
	BookmarkHandler *handlers.BookmarkHandler
}

// RegisterRoutes wires bookmark endpoints.
func RegisterRoutes(app fiber.Router, handlers *Handlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/bookmarks", auth)

	group.Get("/", handlers.BookmarkHandler.List)
	group.Get("/status", handlers.BookmarkHandler.Status)
	group.Post("/:postId/toggle", constraints.RequireUUID("postId"), handlers.BookmarkHandler.Toggle)
}
