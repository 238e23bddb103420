package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/bookmarks/errors"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/services"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
)

type BookmarkHandler struct {
	service services.Service
}

func NewBookmarkHandler(service services.Service) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// Toggle toggles bookmark state for a post.
// Endpoint: POST /bookmarks/:postId/toggle
func (h *BookmarkHandler) Toggle(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	bookmarked, err := h.service.ToggleBookmark(c.UserContext(), user.UserID.String(), c.Params("postId"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.ToggleResponse{IsBookmarked: bookmarked})
}

// List returns bookmarked posts for the current user.
// Endpoint: GET /bookmarks?page=...&limit=...
func (h *BookmarkHandler) List(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	resp, err := h.service.ListBookmarks(c.UserContext(), user.UserID.String(),
		c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageLimit))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// Status reports bookmark state for a comma-separated id list.
// Endpoint: GET /bookmarks/status?postIds=a,b
func (h *BookmarkHandler) Status(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	var ids []string
	if raw := c.Query("postIds"); raw != "" {
		ids = strings.Split(raw, ",")
	}
	found, err := h.service.Status(c.UserContext(), user.UserID.String(), ids)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(models.StatusResponse{Bookmarked: found})
}
