package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is a service-level failure with an HTTP status attached.
type AppError struct {
	Code    int
	Message string
	Detail  string
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

func NewInternalError(message, detail string) *AppError {
	return &AppError{Code: fiber.StatusInternalServerError, Message: message, Detail: detail}
}

// ErrorHandlerMiddleware converts uncaught errors into the uniform envelope
// so no raw internals leak to the frontend.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(Response{
				Success: false,
				Message: "Validation failed",
				Errors:  vErr.Errors,
			})
		}

		var aErr *AppError
		if errors.As(err, &aErr) {
			return ctx.Status(aErr.Code).JSON(Response{
				Success: false,
				Message: aErr.Message,
				Error:   aErr.Detail,
			})
		}

		var fErr *fiber.Error
		if errors.As(err, &fErr) {
			return ctx.Status(fErr.Code).JSON(ErrorResponse(fErr.Code, fErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(Response{
			Success: false,
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}
