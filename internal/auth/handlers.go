package auth

import (
	"o365-backend/internal/middleware"
	"o365-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	AdminUsername string
	AdminPassword string
}

// POST /api/login. On success the presented password becomes the bearer
// token for admin routes (Worker parity: token == shared admin secret).
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, "登录失败")
	}
	if body.Username != h.AdminUsername || !middleware.VerifyAdminSecret(h.AdminPassword, body.Password) {
		return response.Fail(c, "登录失败")
	}
	return response.OK(c, "登录成功", fiber.Map{"token": body.Password})
}
