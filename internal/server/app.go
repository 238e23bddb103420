// Package server builds the fiber application shared by the entrypoint and route tests.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// New returns a fiber app configured from cfg. The app is immutable: params and query
// values are handed to background publishers and in-memory stores that outlive the request.
func New(cfg platformconfig.ServerConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "friendflix",
		Immutable:    true,
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: ErrorHandler,
	})
}

// ErrorHandler answers errors no handler turned into a response, in the same shape the
// feature error packages use.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if len(c.Response().Body()) > 0 {
		return nil
	}
	if code >= fiber.StatusInternalServerError {
		log.ErrorWithContext(c.UserContext(), "%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"code":    errorCode(code),
		"message": err.Error(),
	})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}
