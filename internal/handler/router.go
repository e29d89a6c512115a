package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/code-analyzer/server/internal/service"
)

// RegisterRoutes mounts every endpoint on app.
func RegisterRoutes(app *fiber.App, codeSvc service.CodeService, health *HealthHandler) {
	health.Register(app)
	NewAnalyzeHandler(codeSvc).Register(app)
	NewChatHandler(codeSvc).Register(app)
}
