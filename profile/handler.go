package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	"github.com/limitedgamerz39-afk/friendflix/profile/errors"
	"github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/profile/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func currentUser(c *fiber.Ctx) (types.UserContext, bool) {
	uc, ok := c.Locals(types.UserCtxName).(types.UserContext)
	return uc, ok && uc.UserID != uuid.Nil
}

// ReadMyProfile returns the caller's profile.
// Endpoint: GET /profile/my
func (h *ProfileHandler) ReadMyProfile(c *fiber.Ctx) error {
	uc, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}
	if err := h.profileService.EnsureProfile(c.UserContext(), uc); err != nil {
		return errors.HandleServiceError(c, err)
	}
	resp, err := h.profileService.GetProfile(c.UserContext(), uc.UserID.String())
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(resp)
}

// ReadProfile returns a profile with follower and following counts.
// Endpoint: GET /profile/:userId
func (h *ProfileHandler) ReadProfile(c *fiber.Ctx) error {
	resp, err := h.profileService.GetProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(resp)
}

// GetBySocialName resolves a profile by its username.
// Endpoint: GET /profile/social/:name
func (h *ProfileHandler) GetBySocialName(c *fiber.Ctx) error {
	resp, err := h.profileService.GetProfileBySocialName(c.UserContext(), c.Params("name"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(resp)
}

// UpdateProfile upserts the caller's profile.
// Endpoint: PUT /profile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	uc, ok := currentUser(c)
	if !ok {
		return errors.HandleUserContextError(c)
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleBodyError(c, err)
	}

	p, err := h.profileService.UpdateProfile(c.UserContext(), uc, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "profile": p})
}

// EnsureMiddleware creates a profile for any authenticated caller seen for the first time.
// It never fails the request.
func EnsureMiddleware(svc services.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uc, ok := currentUser(c); ok {
			if err := svc.EnsureProfile(c.UserContext(), uc); err != nil {
				log.WarnWithContext(c.UserContext(), "ensure profile %s: %v", uc.UserID, err)
			}
		}
		return c.Next()
	}
}
