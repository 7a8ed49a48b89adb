package middleware

import (
	"o365-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Unhandled errors become the
// standard failure envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	message := "Internal Server Error"
	if e, ok := err.(*fiber.Error); ok {
		message = e.Message
	}
	return response.Fail(c, message)
}
