package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/code-analyzer/server/internal/models"
	"github.com/ahmednasr/code-analyzer/server/internal/service"
)

// ChatHandler wires HTTP → CodeService.Chat.
type ChatHandler struct {
	svc service.CodeService
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(svc service.CodeService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Register mounts the /chat endpoint on the supplied router.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/chat", h.chat)
}

// chat handles POST /chat  { "history": [...], "question": "...", "code_context": "..." }
func (h *ChatHandler) chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	// Empty question or context is passed through; model failures come back as text.
	return c.JSON(h.svc.Chat(c.UserContext(), req))
}
