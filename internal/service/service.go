package service

import (
	"github.com/wayfarer/backend/internal/domain"
)

// ItineraryRepository is re-exported from domain for convenience
type ItineraryRepository = domain.ItineraryRepository
