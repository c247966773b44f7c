package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lyricverse/internal/experiments"
)

// ExperimentHandler exposes experiment assignment and metrics endpoints
type ExperimentHandler struct {
	assigner *experiments.Assigner
}

// NewExperimentHandler creates a new experiment handler
func NewExperimentHandler(assigner *experiments.Assigner) *ExperimentHandler {
	return &ExperimentHandler{assigner: assigner}
}

// Variant returns the caller's assigned variant for an experiment
// GET /api/experiments/:name/variant
func (h *ExperimentHandler) Variant(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	name := c.Params("name")
	variant := h.assigner.Variant(userID, name)
	if variant == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Experiment not found",
		})
	}

	return c.JSON(fiber.Map{
		"experiment": name,
		"variant":    variant,
	})
}

// RecordConversion records a conversion event against the caller's assigned
// variant
// POST /api/experiments/:name/conversions
func (h *ExperimentHandler) RecordConversion(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil || req.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversion type is required",
		})
	}

	name := c.Params("name")
	h.assigner.RecordConversion(c.Context(), userID, name, req.Type)

	return c.JSON(fiber.Map{
		"status": "recorded",
	})
}

// Metrics returns exposure and conversion counts per variant
// GET /api/experiments/:name/metrics
func (h *ExperimentHandler) Metrics(c *fiber.Ctx) error {
	name := c.Params("name")
	metrics, err := h.assigner.Metrics(c.Context(), name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Experiment not found",
		})
	}

	return c.JSON(metrics)
}
