package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMediaNotFound      = errors.New("media not found")
	ErrValidation         = errors.New("validation failed")
	ErrPayloadTooLarge    = errors.New("file size too large")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidChunk       = errors.New("invalid chunk")
	ErrIncompleteUpload   = errors.New("not all chunks have been uploaded")
	ErrAlreadyFinalized   = errors.New("upload already finalized")
	ErrUploadFailed       = errors.New("upload failed")
	ErrStorageUnavailable = errors.New("media upload service is not available")
	ErrMissingUserContext = errors.New("missing user context")
	ErrDatabaseOperation  = errors.New("database operation failed")
)

const (
	CodeMediaNotFound      = "MEDIA_NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeInvalidDuration    = "INVALID_DURATION"
	CodeInvalidChunk       = "INVALID_CHUNK"
	CodeIncompleteUpload   = "INCOMPLETE_UPLOAD"
	CodeAlreadyFinalized   = "ALREADY_FINALIZED"
	CodeUploadFailed       = "UPLOAD_FAILED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// IncompleteUploadError carries the chunk counts reported to the client.
type IncompleteUploadError struct {
	UploadedChunks int
	TotalChunks    int
}

func (e *IncompleteUploadError) Error() string {
	return fmt.Sprintf("%s (%d of %d)", ErrIncompleteUpload.Error(), e.UploadedChunks, e.TotalChunks)
}

func (e *IncompleteUploadError) Unwrap() error { return ErrIncompleteUpload }

// Validationf wraps kind with a client-facing message.
func Validationf(kind error, format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...))
}

// message strips the sentinel prefix added by Validationf.
func message(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var incomplete *IncompleteUploadError
	switch {
	case errors.As(err, &incomplete):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"code":           CodeIncompleteUpload,
			"message":        "Not all chunks have been uploaded",
			"uploadedChunks": incomplete.UploadedChunks,
			"totalChunks":    incomplete.TotalChunks,
		})
	case errors.Is(err, ErrMediaNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Code: CodeMediaNotFound, Message: "Media not found"})
	case errors.Is(err, ErrPayloadTooLarge):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodePayloadTooLarge, Message: message(err, ErrPayloadTooLarge)})
	case errors.Is(err, ErrInvalidDuration):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeInvalidDuration, Message: message(err, ErrInvalidDuration)})
	case errors.Is(err, ErrInvalidChunk):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeInvalidChunk, Message: message(err, ErrInvalidChunk)})
	case errors.Is(err, ErrValidation):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeValidationFailed, Message: message(err, ErrValidation)})
	case errors.Is(err, ErrAlreadyFinalized):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{Code: CodeAlreadyFinalized, Message: "Upload already finalized"})
	case errors.Is(err, ErrUploadFailed):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{Code: CodeUploadFailed, Message: "Upload failed, start a new one"})
	case errors.Is(err, ErrStorageUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{Code: CodeServiceUnavailable, Message: "Media upload service is not available", Details: err.Error()})
	case errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Code: CodeDatabaseError, Message: "Database operation failed", Details: err.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Code: CodeInternalError, Message: "An unexpected error occurred", Details: err.Error()})
	}
}

func HandleValidationError(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeValidationFailed, Message: msg})
}

func HandleBodyError(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeInvalidRequestBody, Message: "Invalid request body", Details: err.Error()})
}

func HandleUserContextError(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Code: CodeMissingUserContext, Message: "invalid user context"})
}
