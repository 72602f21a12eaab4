// Package apperr holds the domain error taxonomy and its single
// translation point to HTTP status codes. Handlers return these errors;
// only the fiber error handler turns them into responses.
package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindConflict
	KindBadRequest
	KindUnauthorized
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func BadRequest(msg string) *Error   { return &Error{Kind: KindBadRequest, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

func statusCode(k Kind) int {
	switch k {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict, KindBadRequest:
		// Duplicate job numbers surface as 400 on this API.
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is installed as the fiber app's ErrorHandler. Every failure
// renders the standard envelope; internals are logged, never leaked.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			log.Printf("%s %s: %v", c.Method(), c.Path(), appErr)
		}
		return c.Status(statusCode(appErr.Kind)).JSON(fiber.Map{
			"status":  "error",
			"message": appErr.Message,
			"data":    nil,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"status":  "error",
			"message": fiberErr.Message,
			"data":    nil,
		})
	}

	log.Printf("%s %s: unhandled error: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": "Internal server error",
		"data":    nil,
	})
}
