package response

import (
	"github.com/gofiber/fiber/v2"
)

// Body is the uniform API envelope (Worker parity): code 0 = success,
// code 1 = failure, always HTTP 200.
type Body struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

const (
	codeOK   = 0
	codeFail = 1
)

// OK sends a success envelope.
func OK(c *fiber.Ctx, msg string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Body{
		Code: codeOK,
		Msg:  msg,
		Data: data,
	})
}

// Fail sends a failure envelope.
func Fail(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusOK).JSON(Body{
		Code: codeFail,
		Msg:  msg,
	})
}
