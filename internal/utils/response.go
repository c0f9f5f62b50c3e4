package utils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, string(types.KindNotFound))
}

// StatusForKind maps a domain error kind to its HTTP status
func StatusForKind(kind types.Kind) int {
	switch kind {
	case types.KindNotFound:
		return fiber.StatusNotFound
	case types.KindValidation:
		return fiber.StatusBadRequest
	case types.KindAuth:
		return fiber.StatusUnauthorized
	case types.KindExternalService:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// DomainErrorResponse sends the envelope for an error returned by the store
// or services. Errors of unknown kind are reported as persistence failures.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	kind := types.KindOf(err)
	if kind == "" {
		kind = types.KindPersistence
	}
	return ErrorResponse(c, err.Error(), StatusForKind(kind), string(kind))
}

// MutationSuccessResponse sends a success response for mutations
func MutationSuccessResponse(c *fiber.Ctx, newVersion uint64, data interface{}) error {
	body := fiber.Map{
		"message":    "Success",
		"ok":         true,
		"newVersion": fmt.Sprintf("%d", newVersion),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message    string      `json:"message"`
	Ok         bool        `json:"ok"`
	NewVersion string      `json:"newVersion"`
	Timestamp  string      `json:"timestamp"`
	Data       interface{} `json:"data,omitempty"`
}
