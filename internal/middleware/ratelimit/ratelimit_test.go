package ratelimit

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(handler)
	app.Post("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func send(t *testing.T, app *fiber.App, ip string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/test", strings.NewReader("{}"))
	req.Header.Set(types.HeaderContentType, "application/json")
	req.Header.Set("X-Forwarded-For", ip)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimit_SuccessWithinLimits(t *testing.T) {
	app := newApp(New(Config{Name: "upload", Max: 3, Expiration: time.Minute}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, 200, send(t, app, "192.168.1.1"))
	}
}

func TestRateLimit_RejectsExcessiveRequests(t *testing.T) {
	app := newApp(New(Config{Name: "upload", Max: 2, Expiration: time.Minute}))

	assert.Equal(t, 200, send(t, app, "192.168.1.1"))
	assert.Equal(t, 200, send(t, app, "192.168.1.1"))

	req := httptest.NewRequest("POST", "/test", strings.NewReader("{}"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "RATE_LIMIT_EXCEEDED")
	assert.Contains(t, string(body), "upload")
	resp.Body.Close()
}

func TestRateLimit_OptionalDisabled(t *testing.T) {
	app := newApp(Optional(false, Config{Max: 1}))

	for i := 0; i < 5; i++ {
		assert.Equal(t, 200, send(t, app, "10.0.0.1"))
	}
}
