package posts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/posts/handlers"
)

// PostsHandlers holds all the handlers this router needs.
type PostsHandlers struct {
	PostHandler *handlers.PostHandler
}

// RegisterRoutes is the single entry point for setting up posts routes.
func RegisterRoutes(app fiber.Router, handlers *PostsHandlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/posts", auth)

	group.Post("/", handlers.PostHandler.CreatePost)

	// collection queries before the parameterized routes
	group.Get("/feed", handlers.PostHandler.GetFeed)
	group.Get("/reels", handlers.PostHandler.GetReels)
	group.Get("/watch", handlers.PostHandler.GetWatch)
	group.Get("/user/:userId", constraints.RequireUUID("userId"), handlers.PostHandler.GetUserPosts)

	group.Get("/:postId", constraints.RequireUUID("postId"), handlers.PostHandler.GetPost)
	group.Delete("/:postId", constraints.RequireUUID("postId"), handlers.PostHandler.DeletePost)
	group.Post("/:postId/like", constraints.RequireUUID("postId"), handlers.PostHandler.LikePost)
	group.Post("/:postId/comment", constraints.RequireUUID("postId"), handlers.PostHandler.CommentOnPost)
}
