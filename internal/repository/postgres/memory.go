package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer/backend/internal/domain"
)

// MemoryRepository implements domain.ItineraryRepository in process memory.
// Used when no DATABASE_URL is configured and in tests. Writes are
// serialized by the mutex; semantics stay last-writer-wins per user id.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Itinerary
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]domain.Itinerary),
	}
}

// SaveItinerary stores the itinerary under its user id, keeping the id of
// any previously saved row
func (r *MemoryRepository) SaveItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[it.UserID]; ok {
		it.ID = existing.ID
	} else {
		it.ID = uuid.NewString()
	}
	it.UpdatedAt = time.Now().UTC()
	it.Data = append([]byte(nil), it.Data...)

	r.items[it.UserID] = it
	return it, nil
}

// GetItinerary retrieves a user's itinerary
func (r *MemoryRepository) GetItinerary(ctx context.Context, userID string) (domain.Itinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[userID]
	if !ok {
		return domain.Itinerary{}, domain.ErrItineraryNotFound
	}
	return it, nil
}

// Health always returns nil for the in-memory store
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}
