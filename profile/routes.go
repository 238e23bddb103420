package profile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

type ProfileHandlers struct {
	ProfileHandler *ProfileHandler
}

func RegisterRoutes(app fiber.Router, handlers *ProfileHandlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	group := app.Group("/profile", auth)

	group.Get("/my", handlers.ProfileHandler.ReadMyProfile)
	group.Get("/social/:name", handlers.ProfileHandler.GetBySocialName)
	group.Get("/:userId", constraints.RequireUUID("userId"), handlers.ProfileHandler.ReadProfile)
	group.Put("/", handlers.ProfileHandler.UpdateProfile)
}
