package middleware

import (
	"strings"

	"o365-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin checks the Authorization header against the shared admin
// secret. ADMIN_PASSWORD may be a bcrypt hash, in which case the presented
// bearer value is verified against it; otherwise plain comparison (Worker
// parity: token == admin password).
func RequireAdmin(adminPassword string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if !strings.HasPrefix(token, "Bearer ") {
			return response.Fail(c, "未登录或登录已失效")
		}
		if !VerifyAdminSecret(adminPassword, strings.TrimPrefix(token, "Bearer ")) {
			return response.Fail(c, "未登录或登录已失效")
		}
		return c.Next()
	}
}

// VerifyAdminSecret compares a presented secret with the configured one,
// supporting bcrypt-hashed configuration values.
func VerifyAdminSecret(configured, presented string) bool {
	if presented == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(presented)) == nil
	}
	return configured == presented
}
