package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/wayfarer/backend/internal/delivery/http"
	"github.com/wayfarer/backend/internal/repository/postgres"
	"github.com/wayfarer/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Fail fast if the season table misses a label the adapters emit
	if err := service.ValidateSeasonWindows(); err != nil {
		log.Fatalf("Invalid season configuration: %v", err)
	}

	// Itinerary storage: Postgres when configured, in-memory otherwise
	repo := setupRepository(cfg)

	// Dependency Injection: upstream adapters
	geoSvc := service.NewGeocodingService(cfg.GoogleMapsAPIKey)
	placesSvc := service.NewPlacesService(cfg.GoogleMapsAPIKey)
	trekSvc := service.NewTrekkingService()
	weatherSvc := service.NewWeatherService(cfg.OpenWeatherAPIKey)
	eventsSvc := service.NewEventsService(cfg.EventbriteAPIKey)

	// Image enrichment is an optional capability, resolved once here
	imageSvc := service.NewImageService(cfg.ImageSearchAPIKey)
	if imageSvc.Enabled() {
		log.Println("Image enrichment enabled")
	} else {
		log.Println("Image enrichment disabled (no IMAGE_SEARCH_API_KEY)")
	}

	recommendSvc := service.NewRecommendService(geoSvc, placesSvc, trekSvc, weatherSvc, eventsSvc, imageSvc)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Wayfarer API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, recommendSvc, repo)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

// setupRepository connects to Postgres when DATABASE_URL is set, falling
// back to the in-memory store so the service runs without a database
func setupRepository(cfg *Config) service.ItineraryRepository {
	if cfg.DatabaseURL == "" {
		log.Println("No DATABASE_URL configured, itineraries stored in memory")
		return postgres.NewMemoryRepository()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Itineraries stored in memory")
		return postgres.NewMemoryRepository()
	}

	repo := postgres.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("Warning: Could not ensure schema: %v", err)
		log.Println("Itineraries stored in memory")
		pool.Close()
		return postgres.NewMemoryRepository()
	}

	log.Println("Connected to PostgreSQL")
	return repo
}

type Config struct {
	GoogleMapsAPIKey  string
	OpenWeatherAPIKey string
	EventbriteAPIKey  string
	ImageSearchAPIKey string
	DatabaseURL       string
	Port              string
	Env               string
}

func loadConfig() *Config {
	return &Config{
		GoogleMapsAPIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		EventbriteAPIKey:  getEnv("EVENTBRITE_API_KEY", ""),
		ImageSearchAPIKey: getEnv("IMAGE_SEARCH_API_KEY", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
