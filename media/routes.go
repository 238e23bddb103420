package media

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/constraints"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/ratelimit"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/media/handlers"
)

type Handlers struct {
	MediaHandler *handlers.MediaHandler
}

// RegisterRoutes wires the upload lifecycle endpoints.
func RegisterRoutes(app fiber.Router, h *Handlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{PublicKey: cfg.JWT.PublicKey})
	uploadLimit := ratelimit.Optional(cfg.RateLimits.Upload.Enabled, ratelimit.Config{
		Name:       "upload",
		Max:        cfg.RateLimits.Upload.Max,
		Expiration: cfg.RateLimits.Upload.Duration,
	})

	group := app.Group("/media", auth)

	group.Post("/initialize", uploadLimit, h.MediaHandler.InitializeUpload)
	group.Post("/chunk", uploadLimit, h.MediaHandler.UploadChunk)
	group.Post("/finalize", h.MediaHandler.FinalizeUpload)
	group.Get("/status/:mediaId", constraints.RequireUUID("mediaId"), h.MediaHandler.GetUploadStatus)
	group.Get("/user", h.MediaHandler.GetUserMedia)
	group.Get("/user/:userId", constraints.RequireUUID("userId"), h.MediaHandler.GetUserMedia)
	group.Delete("/:mediaId", constraints.RequireUUID("mediaId"), h.MediaHandler.DeleteMedia)
}
