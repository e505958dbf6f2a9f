package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wayfarer/backend/internal/domain"
	"github.com/wayfarer/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	recommendSvc *service.RecommendService
	repo         service.ItineraryRepository
}

// NewHandler creates a new handler
func NewHandler(recommendSvc *service.RecommendService, repo service.ItineraryRepository) *Handler {
	return &Handler{
		recommendSvc: recommendSvc,
		repo:         repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "wayfarer-backend",
		"version": "1.0.0",
	})
}

// Recommend builds travel recommendations for a city and preference set
func (h *Handler) Recommend(c *fiber.Ctx) error {
	ctx := c.Context()

	var req domain.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing JSON body",
		})
	}

	query := req.Normalize()
	if query.City == "" || len(query.Preferences) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide 'city' and 'preferences'.",
		})
	}

	rec, err := h.recommendSvc.Recommend(ctx, query)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid city name or location not found.",
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build recommendations")
	}

	return c.JSON(rec)
}

// SaveItinerary stores the caller's itinerary, replacing any previous one
func (h *Handler) SaveItinerary(c *fiber.Ctx) error {
	ctx := c.Context()

	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing JSON body",
		})
	}

	it := domain.Itinerary{
		UserID: c.Params("userID"),
		Data:   append([]byte(nil), body...),
	}

	saved, err := h.repo.SaveItinerary(ctx, it)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save itinerary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    saved,
	})
}

// GetItinerary returns the caller's saved itinerary
func (h *Handler) GetItinerary(c *fiber.Ctx) error {
	ctx := c.Context()

	it, err := h.repo.GetItinerary(ctx, c.Params("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrItineraryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No itinerary found for user",
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch itinerary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    it,
	})
}
