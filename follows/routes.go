package follows

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/follows/handlers"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

type Handlers struct {
	FollowHandler *handlers.FollowHandler
}

// RegisterRoutes wires follow endpoints.
func RegisterRoutes(app fiber.Router, handlers *Handlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/follows", auth)
	userID := constraints.RequireUUID("userId")

	group.Post("/:userId", userID, handlers.FollowHandler.Follow)
	group.Delete("/:userId", userID, handlers.FollowHandler.Unfollow)
	group.Get("/:userId/followers/count", userID, handlers.FollowHandler.FollowersCount)
	group.Get("/:userId/following/count", userID, handlers.FollowHandler.FollowingCount)
	group.Get("/:userId/followers", userID, handlers.FollowHandler.Followers)
	group.Get("/:userId/following", userID, handlers.FollowHandler.Following)
	group.Get("/:userId/status", userID, handlers.FollowHandler.Status)
}
