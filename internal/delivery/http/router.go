package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wayfarer/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, recommendSvc *service.RecommendService, repo service.ItineraryRepository) {
	handler := NewHandler(recommendSvc, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Recommendation endpoint
	app.Post("/recommend", handler.Recommend)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Itinerary endpoints
		api.Put("/itinerary/:userID", handler.SaveItinerary)
		api.Get("/itinerary/:userID", handler.GetItinerary)
	}
}
