package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrNotSender          = errors.New("only the sender can delete a message for everyone")
	ErrValidation         = errors.New("validation failed")
	ErrMissingUserContext = errors.New("missing user context")
	ErrDatabaseOperation  = errors.New("database operation failed")
)

const (
	CodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	CodeReceiverNotFound   = "RECEIVER_NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
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

func Validationf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, a...))
}

func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrMessageNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Code: CodeMessageNotFound, Message: "Message not found"})
	case errors.Is(err, ErrReceiverNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Code: CodeReceiverNotFound, Message: "Receiver not found"})
	case errors.Is(err, ErrNotSender):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{Code: CodeForbidden, Message: "Only the sender can delete a message for everyone"})
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
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Code: CodeMissingUserContext, Message: "Authentication required"})
}

func HandleBodyError(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequestBody,
		Message: "Invalid request body",
		Details: err.Error(),
	})
}
