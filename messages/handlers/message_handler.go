package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	msgerrors "github.com/limitedgamerz39-afk/friendflix/messages/errors"
	"github.com/limitedgamerz39-afk/friendflix/messages/models"
	"github.com/limitedgamerz39-afk/friendflix/messages/services"
)

type MessageHandler struct {
	service services.Service
}

func NewMessageHandler(service services.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /messages
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return msgerrors.HandleUserContextError(c)
	}
	req := new(models.SendMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return msgerrors.HandleBodyError(c, err)
	}
	view, err := h.service.Send(c.UserContext(), user, req)
	if err != nil {
		return msgerrors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(view)
}

// Conversations handles GET /messages/conversations
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return msgerrors.HandleUserContextError(c)
	}
	convs, err := h.service.Conversations(c.UserContext(), user.UserID.String())
	if err != nil {
		return msgerrors.HandleServiceError(c, err)
	}
	return c.JSON(convs)
}

// History handles GET /messages/:userId
func (h *MessageHandler) History(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return msgerrors.HandleUserContextError(c)
	}
	msgs, err := h.service.History(c.UserContext(), user.UserID.String(), c.Params("userId"))
	if err != nil {
		return msgerrors.HandleServiceError(c, err)
	}
	return c.JSON(msgs)
}

// Delete handles DELETE /messages/:messageId?scope=me|everyone
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return msgerrors.HandleUserContextError(c)
	}
	scope := models.DeleteScope(c.Query("scope", string(models.DeleteForMe)))
	if err := h.service.Delete(c.UserContext(), user.UserID.String(), c.Params("messageId"), scope); err != nil {
		return msgerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}
