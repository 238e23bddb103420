package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidProfileData = errors.New("invalid profile data")
	ErrSocialNameTaken    = errors.New("social name already taken")
	ErrMissingUserContext = errors.New("missing user context")
	ErrDatabaseOperation  = errors.New("database operation failed")
)

const (
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeSocialNameTaken    = "SOCIAL_NAME_TAKEN"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeDatabaseOperation  = "DATABASE_OPERATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrProfileNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeProfileNotFound,
			Message: "Profile not found",
		})
	case errors.Is(err, ErrInvalidProfileData):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Invalid profile data",
			Details: err.Error(),
		})
	case errors.Is(err, ErrSocialNameTaken):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeSocialNameTaken,
			Message: "Social name already taken",
		})
	case errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeDatabaseOperation,
			Message: "Database operation failed",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

func HandleUserContextError(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: "Authentication required",
	})
}

func HandleBodyError(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequestBody,
		Message: "Invalid request body",
		Details: err.Error(),
	})
}
