package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	notifyerrors "github.com/limitedgamerz39-afk/friendflix/notifications/errors"
	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
	"github.com/limitedgamerz39-afk/friendflix/notifications/services"
)

type NotificationHandler struct {
	service        services.Service
	vapidPublicKey string
}

func NewNotificationHandler(service services.Service, vapidPublicKey string) *NotificationHandler {
	return &NotificationHandler{service: service, vapidPublicKey: vapidPublicKey}
}

func currentUserID(c *fiber.Ctx) (string, bool) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return "", false
	}
	return user.UserID.String(), true
}

// List handles GET /notifications?page=&limit=
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return notifyerrors.HandleUserContextError(c)
	}
	page, err := h.service.List(c.UserContext(), uid, c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageLimit))
	if err != nil {
		return notifyerrors.HandleServiceError(c, err)
	}
	return c.JSON(page)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return notifyerrors.HandleUserContextError(c)
	}
	n, err := h.service.UnreadCount(c.UserContext(), uid)
	if err != nil {
		return notifyerrors.HandleServiceError(c, err)
	}
	return c.JSON(models.CountResponse{Count: n})
}

// MarkAsRead handles PUT /notifications/:notificationId/read
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return notifyerrors.HandleUserContextError(c)
	}
	n, err := h.service.MarkAsRead(c.UserContext(), c.Params("notificationId"), uid)
	if err != nil {
		return notifyerrors.HandleServiceError(c, err)
	}
	return c.JSON(n)
}

// MarkAllAsRead handles PUT /notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return notifyerrors.HandleUserContextError(c)
	}
	changed, err := h.service.MarkAllAsRead(c.UserContext(), uid)
	if err != nil {
		return notifyerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read", "updated": changed})
}

// Subscribe handles POST /notifications/push/subscribe
func (h *NotificationHandler) Subscribe(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return notifyerrors.HandleUserContextError(c)
	}
	var req models.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return notifyerrors.HandleBodyError(c, err)
	}
	if err := h.service.Subscribe(c.UserContext(), uid, &req); err != nil {
		return notifyerrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Push subscription saved successfully"})
}

// VapidPublicKey handles GET /notifications/push/public-key
func (h *NotificationHandler) VapidPublicKey(c *fiber.Ctx) error {
	if h.vapidPublicKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(notifyerrors.ErrorResponse{
			Code:    notifyerrors.CodeValidationFailed,
			Message: "Push notifications are not enabled",
		})
	}
	return c.JSON(fiber.Map{"publicKey": h.vapidPublicKey})
}
