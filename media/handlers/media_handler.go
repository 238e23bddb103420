package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	"github.com/limitedgamerz39-afk/friendflix/media/errors"
	"github.com/limitedgamerz39-afk/friendflix/media/models"
	"github.com/limitedgamerz39-afk/friendflix/media/services"
)

// MediaHandler serves the chunked upload endpoints.
type MediaHandler struct {
	service services.Service
}

func NewMediaHandler(service services.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func currentUser(c *fiber.Ctx) (types.UserContext, bool) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	return user, ok
}

// InitializeUpload opens an upload and returns one presigned URL per chunk.
// Endpoint: POST /media/initialize
func (h *MediaHandler) InitializeUpload(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	var req models.InitializeUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleBodyError(c, err)
	}

	resp, err := h.service.InitializeUpload(c.UserContext(), user.UserID.String(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// UploadChunk records a chunk the client PUT to its presigned URL.
// Endpoint: POST /media/chunk
func (h *MediaHandler) UploadChunk(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	var req models.UploadChunkRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleBodyError(c, err)
	}

	resp, err := h.service.UploadChunk(c.UserContext(), user.UserID.String(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(resp)
}

// FinalizeUpload completes an upload once every chunk is recorded. Unknown body fields
// become media metadata.
// Endpoint: POST /media/finalize
func (h *MediaHandler) FinalizeUpload(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errors.HandleBodyError(c, err)
	}

	req := models.FinalizeUploadRequest{Metadata: map[string]interface{}{}}
	for k, v := range body {
		switch k {
		case "mediaId":
			req.MediaID, _ = v.(string)
		case "caption":
			req.Caption, _ = v.(string)
		case "uploadType":
			s, _ := v.(string)
			req.UploadType = models.UploadType(s)
		default:
			req.Metadata[k] = v
		}
	}

	resp, err := h.service.FinalizeUpload(c.UserContext(), user.UserID.String(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(resp)
}

// GetUploadStatus reports chunk progress.
// Endpoint: GET /media/status/:mediaId
func (h *MediaHandler) GetUploadStatus(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	resp, err := h.service.GetUploadStatus(c.UserContext(), c.Params("mediaId"), user.UserID.String())
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"media": resp})
}

// GetUserMedia lists the latest media of a user, the caller when no id is given.
// Endpoint: GET /media/user/:userId?
func (h *MediaHandler) GetUserMedia(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	target := c.Params("userId")
	if target == "" {
		target = user.UserID.String()
	}

	media, err := h.service.ListUserMedia(c.UserContext(), target)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"media": media})
}

// DeleteMedia removes an owned media record.
// Endpoint: DELETE /media/:mediaId
func (h *MediaHandler) DeleteMedia(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	if err := h.service.DeleteMedia(c.UserContext(), c.Params("mediaId"), user.UserID.String()); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Media deleted successfully"})
}
