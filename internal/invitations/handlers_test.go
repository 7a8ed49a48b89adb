package invitations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"o365-backend/internal/models"
	"o365-backend/internal/pkg/response"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHandlersTest(t *testing.T) (*Handlers, *Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.InvitationCode{}))
	svc := &Service{DB: db, CodeLength: 8}
	return &Handlers{Service: svc}, svc
}

func TestCreateCodes_Handler(t *testing.T) {
	h, svc := setupHandlersTest(t)
	app := fiber.New()
	app.Post("/api/invitation/create", h.CreateCodes)

	payload, _ := json.Marshal(map[string]int{"num": 3})
	req := httptest.NewRequest("POST", "/api/invitation/create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body response.Body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "创建成功", body.Msg)

	codes, err := svc.ListCodes(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, codes, 3)
}

func TestCreateCodes_Handler_InvalidNum(t *testing.T) {
	h, _ := setupHandlersTest(t)
	app := fiber.New()
	app.Post("/api/invitation/create", h.CreateCodes)

	payload, _ := json.Marshal(map[string]int{"num": 0})
	req := httptest.NewRequest("POST", "/api/invitation/create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body response.Body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Code)
}

func TestListCodes_Handler_StatusFilter(t *testing.T) {
	h, svc := setupHandlersTest(t)
	app := fiber.New()
	app.Get("/api/invitation/list", h.ListCodes)

	created := svc.CreateCodes(context.Background(), 2)
	require.Len(t, created, 2)
	used, err := svc.UseCode(context.Background(), created[0].Code, "a@b.com")
	require.NoError(t, err)
	require.True(t, used)

	req := httptest.NewRequest("GET", "/api/invitation/list?status=0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body struct {
		Code int                     `json:"code"`
		Msg  string                  `json:"msg"`
		Data []models.InvitationCode `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Code)
	require.Len(t, body.Data, 1)
	assert.Equal(t, created[1].Code, body.Data[0].Code)
}

func TestListCodes_Handler_BadStatus(t *testing.T) {
	h, _ := setupHandlersTest(t)
	app := fiber.New()
	app.Get("/api/invitation/list", h.ListCodes)

	req := httptest.NewRequest("GET", "/api/invitation/list?status=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body response.Body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Code)
}
