package health

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for the health endpoint.
type Handlers struct {
	Rdb      *redis.Client
	DB       DBPinger
	LoginURL string
}

// JSON returns the health report.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(context.Background(), h.Rdb, h.DB, h.LoginURL)
	return c.JSON(map[string]interface{}{
		"service":      "o365-backend",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}
