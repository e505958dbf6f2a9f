package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrItineraryNotFound is returned when a user has no saved itinerary
var ErrItineraryNotFound = errors.New("itinerary not found")

// Itinerary is a user's saved trip plan. Writes are last-writer-wins
// per user id.
type Itinerary struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItineraryRepository defines the interface for itinerary persistence.
// This follows the Dependency Inversion Principle - domain defines the interface
type ItineraryRepository interface {
	// SaveItinerary upserts the itinerary for its user id and returns the
	// stored record
	SaveItinerary(ctx context.Context, it Itinerary) (Itinerary, error)

	// GetItinerary retrieves a user's itinerary, or ErrItineraryNotFound
	GetItinerary(ctx context.Context, userID string) (Itinerary, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
