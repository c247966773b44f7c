package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	mongo Pinger
	redis Pinger
}

// NewHealthHandler creates a new health handler. Either dependency may be nil
// when the deployment runs without it.
func NewHealthHandler(mongo, redis Pinger) *HealthHandler {
	return &HealthHandler{mongo: mongo, redis: redis}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := fiber.Map{}

	if h.mongo != nil {
		if err := h.mongo.Ping(ctx); err != nil {
			status = "degraded"
			checks["mongodb"] = "unreachable"
		} else {
			checks["mongodb"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			status = "degraded"
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
