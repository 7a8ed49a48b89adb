package accounts

import (
	"o365-backend/internal/config"
	"o365-backend/internal/pkg/response"
	"o365-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	Domains []string
	SKUs    []config.SKU
}

// POST /api/account/create (public)
func (h *Handlers) CreateAccount(c *fiber.Ctx) error {
	var body struct {
		InvitationCode string `json:"invitation_code"`
		DisplayName    string `json:"display_name"`
		UserName       string `json:"user_name"`
		Domain         string `json:"domain"`
		SkuID          string `json:"sku_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Fail(c, "请求参数无效")
	}
	if body.DisplayName == "" || body.UserName == "" || body.Domain == "" || body.SkuID == "" {
		return response.Fail(c, "缺少必要参数")
	}
	if !validation.IsValidUserName(body.UserName) {
		return response.Fail(c, "用户名格式不正确")
	}
	if !validation.IsValidDisplayName(body.DisplayName) {
		return response.Fail(c, "显示名称格式不正确")
	}

	result, err := h.Service.CreateAccount(c.Context(), CreateAccountInput{
		InvitationCode: body.InvitationCode,
		DisplayName:    body.DisplayName,
		UserName:       body.UserName,
		Domain:         body.Domain,
		SkuID:          body.SkuID,
	})
	if err != nil {
		return response.Fail(c, err.Error())
	}
	return response.OK(c, "申请账号成功", result)
}

// POST /api/account/enable (admin)
func (h *Handlers) EnableAccount(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || !validation.IsValidEmail(body.Email) {
		return response.Fail(c, "邮箱格式不正确")
	}

	if err := h.Service.EnableAccount(c.Context(), body.Email); err != nil {
		return response.Fail(c, err.Error())
	}
	return response.OK(c, "启用成功", nil)
}

// POST /api/invitation/delete (admin). When an email is bound, the directory
// account is removed first (idempotent); the ledger row goes regardless of
// the code's status.
func (h *Handlers) DeleteInvitation(c *fiber.Ctx) error {
	var body struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.ID == 0 {
		return response.Fail(c, "参数无效")
	}

	if err := h.Service.RemoveCode(c.Context(), body.ID, body.Email); err != nil {
		return response.Fail(c, err.Error())
	}
	return response.OK(c, "删除成功", nil)
}

// GET /api/account/options (public): configured domains and SKU catalog.
func (h *Handlers) Options(c *fiber.Ctx) error {
	return response.OK(c, "获取成功", fiber.Map{
		"domains": h.Domains,
		"skus":    h.SKUs,
	})
}
