package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

func TestParamsSurviveTheRequest(t *testing.T) {
	app := New(platformconfig.ServerConfig{})
	var seen []string
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		seen = append(seen, c.Params("id"), c.Query("tag"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, path := range []string{"/items/aaaaaaaa?tag=first", "/items/bbbbbbbb?tag=other"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, []string{"aaaaaaaa", "first", "bbbbbbbb", "other"}, seen)
}

func TestErrorHandlerShape(t *testing.T) {
	app := New(platformconfig.ServerConfig{})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, "slow down")
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/missing", http.StatusNotFound, "NOT_FOUND"},
		{"/boom", http.StatusTooManyRequests, "RATE_LIMITED"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.code, body["code"])
		})
	}
}
