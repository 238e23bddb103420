// Package ratelimit provides per-caller rate limiting for write-heavy endpoints.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
)

// Config holds the configuration for rate limiting middleware
type Config struct {
	// Name is used in logs and in the 429 message.
	Name string

	Max        int
	Expiration time.Duration

	// Next defines a function to skip this middleware when returned true
	Next func(c *fiber.Ctx) bool

	// Custom key generator (optional - uses caller id, then IP)
	KeyGenerator func(c *fiber.Ctx) string

	// LimitReached defines the response when rate limit is exceeded
	LimitReached func(c *fiber.Ctx) error
}

func configDefault(config Config) Config {
	if config.Name == "" {
		config.Name = "request"
	}
	if config.Max <= 0 {
		config.Max = 60
	}
	if config.Expiration <= 0 {
		config.Expiration = time.Minute
	}

	if config.KeyGenerator == nil {
		config.KeyGenerator = func(c *fiber.Ctx) string {
			if user, ok := c.Locals(types.UserCtxName).(types.UserContext); ok {
				return config.Name + ":" + user.UserID.String()
			}
			return config.Name + ":" + c.IP()
		}
	}

	if config.LimitReached == nil {
		config.LimitReached = func(c *fiber.Ctx) error {
			log.Warn("[RateLimit] Rate limit exceeded for %s from IP: %s", config.Name, c.IP())

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      "Rate limit exceeded",
				"code":       "RATE_LIMIT_EXCEEDED",
				"message":    fmt.Sprintf("Too many %s requests. Please try again later.", config.Name),
				"retryAfter": int(config.Expiration.Seconds()),
			})
		}
	}

	return config
}

// New creates a new rate limiting middleware handler
func New(config Config) fiber.Handler {
	cfg := configDefault(config)

	return limiter.New(limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Expiration,
		KeyGenerator: cfg.KeyGenerator,
		LimitReached: cfg.LimitReached,
		Next:         cfg.Next,
	})
}

// Optional returns the limiter when enabled, otherwise a pass-through handler.
func Optional(enabled bool, config Config) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return New(config)
}
