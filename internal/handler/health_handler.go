package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/code-analyzer/server/internal/database"
)

// LivenessMessage is returned by GET /.
const LivenessMessage = "AI Code Analyzer API is running"

type HealthHandler struct {
	eventsDB *mongo.Client
	provider string
}

// NewHealthHandler takes the optional event-log client (nil when disabled)
// and the configured LLM provider name.
func NewHealthHandler(eventsDB *mongo.Client, provider string) *HealthHandler {
	return &HealthHandler{
		eventsDB: eventsDB,
		provider: provider,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/", h.root)
	r.Get("/health", h.health)
}

// root handles GET /
func (h *HealthHandler) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": LivenessMessage})
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "ok",
		"llm_provider": h.provider,
		"dbs": fiber.Map{
			"events": database.Ping(c.UserContext(), h.eventsDB),
		},
	})
}
