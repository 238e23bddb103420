package constraints

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
)

// RequireUUID ensures the named path parameters are valid UUIDs. A malformed value
// answers 404, as if the route did not match.
//
// Static routes like /feed must be registered before parameterized routes like
// /:postId so the constraint only sees id segments.
func RequireUUID(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, param := range params {
			value := c.Params(param)
			if value == "" {
				continue
			}
			if _, err := uuid.FromString(value); err != nil {
				return c.SendStatus(fiber.StatusNotFound)
			}
		}
		return c.Next()
	}
}
