package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	storyerrors "github.com/limitedgamerz39-afk/friendflix/stories/errors"
	"github.com/limitedgamerz39-afk/friendflix/stories/models"
	"github.com/limitedgamerz39-afk/friendflix/stories/services"
)

// FormField is the multipart field carrying the story file.
const FormField = "media"

type StoryHandler struct {
	service services.Service
}

func NewStoryHandler(service services.Service) *StoryHandler {
	return &StoryHandler{service: service}
}

// Upload handles POST /stories (multipart: media, caption)
func (h *StoryHandler) Upload(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return storyerrors.HandleUserContextError(c)
	}

	fileHeader, err := c.FormFile(FormField)
	if err != nil {
		return storyerrors.HandleServiceError(c, storyerrors.Validationf("No file uploaded"))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return storyerrors.HandleBodyError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return storyerrors.HandleBodyError(c, err)
	}

	view, err := h.service.Upload(c.UserContext(), user, &models.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(types.HeaderContentType),
		Data:        data,
		Caption:     c.FormValue("caption"),
	})
	if err != nil {
		return storyerrors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(view)
}

// Active handles GET /stories
func (h *StoryHandler) Active(c *fiber.Ctx) error {
	stories, err := h.service.Active(c.UserContext())
	if err != nil {
		return storyerrors.HandleServiceError(c, err)
	}
	return c.JSON(stories)
}

// UserStories handles GET /stories/user/:userId
func (h *StoryHandler) UserStories(c *fiber.Ctx) error {
	stories, err := h.service.UserStories(c.UserContext(), c.Params("userId"))
	if err != nil {
		return storyerrors.HandleServiceError(c, err)
	}
	return c.JSON(stories)
}

// View handles POST /stories/:storyId/view
func (h *StoryHandler) View(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return storyerrors.HandleUserContextError(c)
	}
	if err := h.service.View(c.UserContext(), c.Params("storyId"), user.UserID.String()); err != nil {
		return storyerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Story viewed successfully"})
}

// Viewers handles GET /stories/:storyId/viewers
func (h *StoryHandler) Viewers(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return storyerrors.HandleUserContextError(c)
	}
	viewers, err := h.service.Viewers(c.UserContext(), c.Params("storyId"), user.UserID.String())
	if err != nil {
		return storyerrors.HandleServiceError(c, err)
	}
	return c.JSON(viewers)
}

// Delete handles DELETE /stories/:storyId
func (h *StoryHandler) Delete(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return storyerrors.HandleUserContextError(c)
	}
	if err := h.service.Delete(c.UserContext(), c.Params("storyId"), user.UserID.String()); err != nil {
		return storyerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Story deleted successfully"})
}
