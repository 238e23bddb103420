package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	followerrors "github.com/limitedgamerz39-afk/friendflix/follows/errors"
	"github.com/limitedgamerz39-afk/friendflix/follows/models"
	"github.com/limitedgamerz39-afk/friendflix/follows/services"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
)

type FollowHandler struct {
	service services.Service
}

func NewFollowHandler(service services.Service) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow handles POST /follows/:userId
func (h *FollowHandler) Follow(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return followerrors.HandleUserContextError(c)
	}
	if err := h.service.Follow(c.UserContext(), user, c.Params("userId")); err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Successfully followed user"})
}

// Unfollow handles DELETE /follows/:userId. A missing edge is not an error.
func (h *FollowHandler) Unfollow(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return followerrors.HandleUserContextError(c)
	}
	removed, err := h.service.Unfollow(c.UserContext(), user.UserID.String(), c.Params("userId"))
	if err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	if !removed {
		return c.JSON(fiber.Map{"message": "You are not following this user", "unfollowed": false})
	}
	return c.JSON(fiber.Map{"message": "Successfully unfollowed user", "unfollowed": true})
}

func (h *FollowHandler) FollowersCount(c *fiber.Ctx) error {
	n, err := h.service.FollowersCount(c.UserContext(), c.Params("userId"))
	if err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	return c.JSON(models.CountResponse{Count: n})
}

func (h *FollowHandler) FollowingCount(c *fiber.Ctx) error {
	n, err := h.service.FollowingCount(c.UserContext(), c.Params("userId"))
	if err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	return c.JSON(models.CountResponse{Count: n})
}

// Followers handles GET /follows/:userId/followers?page=&limit=
func (h *FollowHandler) Followers(c *fiber.Ctx) error {
	page, err := h.service.Followers(c.UserContext(), c.Params("userId"),
		c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageLimit))
	if err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	return c.JSON(page)
}

// Following handles GET /follows/:userId/following?page=&limit=
func (h *FollowHandler) Following(c *fiber.Ctx) error {
	page, err := h.service.Following(c.UserContext(), c.Params("userId"),
		c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageLimit))
	if err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	return c.JSON(page)
}

// Status handles GET /follows/:userId/status
func (h *FollowHandler) Status(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return followerrors.HandleUserContextError(c)
	}
	following, err := h.service.IsFollowing(c.UserContext(), user.UserID.String(), c.Params("userId"))
	if err != nil {
		return followerrors.HandleServiceError(c, err)
	}
	return c.JSON(models.StatusResponse{IsFollowing: following})
}
