package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"lyricverse/internal/discovery"
	"lyricverse/internal/models"
)

// DiscoveryHandler handles content discovery HTTP requests
type DiscoveryHandler struct {
	service *discovery.Service
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(service *discovery.Service) *DiscoveryHandler {
	return &DiscoveryHandler{service: service}
}

// Recommendations returns personalized content recommendations for the
// authenticated user
// GET /api/discovery/recommendations
func (h *DiscoveryHandler) Recommendations(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	limit := c.QueryInt("limit", 0)
	recommendations := h.service.PersonalizedRecommendations(c.Context(), userID, limit)

	return c.JSON(fiber.Map{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// Trending returns globally trending content
// GET /api/discovery/trending
func (h *DiscoveryHandler) Trending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	trending := h.service.TrendingContent(c.Context(), limit)

	return c.JSON(fiber.Map{
		"trending": trending,
		"count":    len(trending),
	})
}

// NetworkTrending returns content trending within the user's connections
// GET /api/discovery/network/trending
func (h *DiscoveryHandler) NetworkTrending(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	limit := c.QueryInt("limit", 0)
	trending := h.service.NetworkTrending(c.Context(), userID, limit)

	return c.JSON(fiber.Map{
		"trending": trending,
		"count":    len(trending),
	})
}

// Popular returns the all-time popular feed
// GET /api/discovery/popular
func (h *DiscoveryHandler) Popular(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	popular := h.service.PopularContent(c.Context(), limit)

	return c.JSON(fiber.Map{
		"popular": popular,
		"count":   len(popular),
	})
}

// PeopleSuggestions returns people-you-may-know suggestions
// GET /api/discovery/people-suggestions
func (h *DiscoveryHandler) PeopleSuggestions(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	limit := c.QueryInt("limit", 0)
	suggestions := h.service.PeopleYouMayKnow(c.Context(), userID, limit)

	return c.JSON(fiber.Map{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// EnhanceSearch re-ranks search results with social signals. The caller
// passes the raw results as a JSON array in the "results" query parameter.
// GET /api/discovery/enhance-search?query=...&results=[...]
func (h *DiscoveryHandler) EnhanceSearch(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	rawResults := c.Query("results")
	if rawResults == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "results parameter is required",
		})
	}

	var results []models.SearchResult
	if err := json.Unmarshal([]byte(rawResults), &results); err != nil {
		log.Printf("⚠️ [DISCOVERY] Malformed search results from user %s: %v", userID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid results format",
		})
	}

	query := c.Query("query")
	enhanced := h.service.EnhanceSearchResults(c.Context(), userID, results, query)

	return c.JSON(fiber.Map{
		"results": enhanced,
		"count":   len(enhanced),
	})
}
