package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrMediaNotFound      = errors.New("media not found")
	ErrValidation         = errors.New("validation failed")
	ErrMissingUserContext = errors.New("missing user context")
	ErrDatabaseOperation  = errors.New("database operation failed")
)

const (
	CodePostNotFound       = "POST_NOT_FOUND"
	CodeMediaNotFound      = "MEDIA_NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
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

// Validationf wraps ErrValidation with a client-facing message.
func Validationf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, a...))
}

func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrPostNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodePostNotFound,
			Message: "Post not found",
		})
	case errors.Is(err, ErrMediaNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeMediaNotFound,
			Message: strings.TrimPrefix(err.Error(), ErrMediaNotFound.Error()+": "),
		})
	case errors.Is(err, ErrValidation):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "),
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
