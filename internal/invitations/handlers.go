package invitations

import (
	"strconv"

	"o365-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// POST /api/invitation/create (admin)
func (h *Handlers) CreateCodes(c *fiber.Ctx) error {
	var body struct {
		Num int `json:"num"`
	}
	if err := c.BodyParser(&body); err != nil || body.Num <= 0 {
		return response.Fail(c, "数量无效")
	}

	codes := h.Service.CreateCodes(c.Context(), body.Num)
	return response.OK(c, "创建成功", codes)
}

// GET /api/invitation/list (admin), optional ?status= filter
func (h *Handlers) ListCodes(c *fiber.Ctx) error {
	var status *int
	if q := c.Query("status"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			return response.Fail(c, "状态参数无效")
		}
		status = &v
	}

	codes, err := h.Service.ListCodes(c.Context(), status)
	if err != nil {
		return response.Fail(c, err.Error())
	}
	return response.OK(c, "获取成功", codes)
}
