package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer/backend/internal/domain"
)

// PostgresRepository implements domain.ItineraryRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the itineraries table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS itineraries (
			id UUID PRIMARY KEY,
			user_id TEXT UNIQUE NOT NULL,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to ensure schema: %w", err)
	}
	return nil
}

// SaveItinerary upserts an itinerary keyed by user id. A row keeps its
// original id across rewrites; content is last-writer-wins.
func (r *PostgresRepository) SaveItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	query := `
		INSERT INTO itineraries (id, user_id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
			SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	it.UpdatedAt = time.Now().UTC()
	newID := uuid.NewString()

	if err := r.pool.QueryRow(ctx, query, newID, it.UserID, it.Data, it.UpdatedAt).Scan(&it.ID); err != nil {
		return domain.Itinerary{}, fmt.Errorf("postgres: failed to save itinerary: %w", err)
	}
	return it, nil
}

// GetItinerary retrieves a user's itinerary
func (r *PostgresRepository) GetItinerary(ctx context.Context, userID string) (domain.Itinerary, error) {
	query := `
		SELECT id, user_id, data, updated_at
		FROM itineraries
		WHERE user_id = $1
	`

	var it domain.Itinerary
	err := r.pool.QueryRow(ctx, query, userID).Scan(&it.ID, &it.UserID, &it.Data, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Itinerary{}, domain.ErrItineraryNotFound
	}
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("postgres: failed to query itinerary: %w", err)
	}
	return it, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
