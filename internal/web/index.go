package web

import (
	"github.com/gofiber/fiber/v2"
)

// indexHTML is the Worker's landing page, served at "/".
const indexHTML = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Microsoft Office 365 账号管理</title>
  <link href="https://cdn.jsdelivr.net/npm/tailwindcss@2.2.19/dist/tailwind.min.css" rel="stylesheet">
</head>
<body class="bg-gray-100">
  <div class="min-h-screen flex items-center justify-center">
    <div class="bg-white p-8 rounded-lg shadow-md w-96">
      <h1 class="text-2xl font-bold text-center mb-6">Office 365 账号管理</h1>
      <div class="space-y-4">
        <button onclick="window.location.href='/api/login'" class="w-full py-2 px-4 bg-blue-600 text-white rounded hover:bg-blue-700 transition duration-200">管理员登录</button>
        <button onclick="window.location.href='/api/account/create'" class="w-full py-2 px-4 bg-green-600 text-white rounded hover:bg-green-700 transition duration-200">创建账号</button>
      </div>
    </div>
  </div>
</body>
</html>`

// Index serves the static landing page.
func Index(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(indexHTML)
}
