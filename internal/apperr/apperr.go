package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is the application error type. Handlers render it as a
// {code, message, fields?} JSON body with the matching HTTP status.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	status  int
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Status() int { return e.status }

func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

func (e *Error) WithFields(fields map[string]string) *Error {
	clone := *e
	clone.Fields = fields
	return &clone
}

func New(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, status: status}
}

func Validation(message string) *Error {
	return New(fiber.StatusUnprocessableEntity, "validation_error", message)
}

func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, "not_found", message)
}

func Conflict(message string) *Error {
	return New(fiber.StatusConflict, "conflict", message)
}

func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, "forbidden", message)
}

func RateLimited(message string) *Error {
	return New(fiber.StatusTooManyRequests, "rate_limited", message)
}

func External(message string) *Error {
	return New(fiber.StatusBadGateway, "external_error", message)
}

func Internal(message string) *Error {
	return New(fiber.StatusInternalServerError, "internal_error", message)
}

// Handler is the Fiber error handler. Unknown errors become an opaque
// internal_error so database details never leak to clients.
func Handler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.status).JSON(appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(&Error{
			Code:    "http_error",
			Message: fiberErr.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(&Error{
		Code:    "internal_error",
		Message: "something went wrong",
	})
}
