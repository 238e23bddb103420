package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	postsErrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
	"github.com/limitedgamerz39-afk/friendflix/posts/services"
)

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func currentUser(c *fiber.Ctx) (types.UserContext, bool) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	return user, ok
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageLimit)
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return postsErrors.HandleUserContextError(c)
	}

	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return postsErrors.HandleBodyError(c, err)
	}

	post, err := h.postService.CreatePost(c.UserContext(), user, &req)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(post)
}

// GetFeed handles GET /posts/feed
func (h *PostHandler) GetFeed(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return postsErrors.HandleUserContextError(c)
	}
	page, limit := pageParams(c)

	result, err := h.postService.GetFeed(c.UserContext(), user.UserID.String(), page, limit)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// GetReels handles GET /posts/reels?tab=following|trending|recommended
func (h *PostHandler) GetReels(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return postsErrors.HandleUserContextError(c)
	}
	page, limit := pageParams(c)
	tab := models.ReelsTab(c.Query("tab", string(models.TabFollowing)))

	result, err := h.postService.GetReels(c.UserContext(), user.UserID.String(), tab, page, limit)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// GetWatch handles GET /posts/watch?category=
func (h *PostHandler) GetWatch(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	result, err := h.postService.GetWatch(c.UserContext(), c.Query("category"), page, limit)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// GetUserPosts handles GET /posts/user/:userId
func (h *PostHandler) GetUserPosts(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	result, err := h.postService.GetUserPosts(c.UserContext(), c.Params("userId"), page, limit)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// GetPost handles GET /posts/:postId
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.postService.GetPost(c.UserContext(), c.Params("postId"))
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /posts/:postId
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return postsErrors.HandleUserContextError(c)
	}

	if err := h.postService.DeletePost(c.UserContext(), c.Params("postId"), user.UserID.String()); err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /posts/:postId/like
func (h *PostHandler) LikePost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return postsErrors.HandleUserContextError(c)
	}

	post, err := h.postService.ToggleLike(c.UserContext(), c.Params("postId"), user)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(post)
}

// CommentOnPost handles POST /posts/:postId/comment
func (h *PostHandler) CommentOnPost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return postsErrors.HandleUserContextError(c)
	}

	var req models.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return postsErrors.HandleBodyError(c, err)
	}

	post, err := h.postService.AddComment(c.UserContext(), c.Params("postId"), user, req.Text)
	if err != nil {
		return postsErrors.HandleServiceError(c, err)
	}
	return c.JSON(post)
}
