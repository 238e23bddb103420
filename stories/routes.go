package stories

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/stories/handlers"
)

type Handlers struct {
	StoryHandler *handlers.StoryHandler
}

// RegisterRoutes wires story endpoints under /stories.
func RegisterRoutes(app fiber.Router, handlers *Handlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/stories", auth)
	storyID := constraints.RequireUUID("storyId")

	group.Post("/", handlers.StoryHandler.Upload)
	group.Get("/", handlers.StoryHandler.Active)
	group.Get("/user/:userId", constraints.RequireUUID("userId"), handlers.StoryHandler.UserStories)
	group.Post("/:storyId/view", storyID, handlers.StoryHandler.View)
	group.Get("/:storyId/viewers", storyID, handlers.StoryHandler.Viewers)
	group.Delete("/:storyId", storyID, handlers.StoryHandler.Delete)
}
