package response

import (
	"github.com/gofiber/fiber/v2"

	"github.com/siliconvoice/voice-upload/internal/model"
)

// Error codes
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUploadInProgress = "UPLOAD_IN_PROGRESS"
	CodeServiceError     = "SERVICE_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Error(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ValidationError(c *fiber.Ctx, message string, details interface{}) error {
	return Error(c, fiber.StatusBadRequest, CodeValidationError, message, details)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, CodeNotFound, message, nil)
}

func PayloadTooLarge(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusRequestEntityTooLarge, CodePayloadTooLarge, message, nil)
}

func UploadInProgress(c *fiber.Ctx) error {
	return Error(c, fiber.StatusConflict, CodeUploadInProgress, "Another upload is still in progress", nil)
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, CodeServiceError, message, nil)
}

// UploadResult writes an upload outcome with the status matching its kind.
func UploadResult(c *fiber.Ctx, result *model.UploadResult) error {
	return c.Status(StatusFor(result.Kind)).JSON(result)
}

// StatusFor maps a result kind onto the HTTP status of the form endpoint.
func StatusFor(kind model.ResultKind) int {
	switch kind {
	case model.KindSuccess:
		return fiber.StatusCreated
	case model.KindMissingURI:
		return fiber.StatusOK
	case model.KindValidation:
		return fiber.StatusBadRequest
	case model.KindRejected, model.KindConnection:
		return fiber.StatusBadGateway
	case model.KindTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}
