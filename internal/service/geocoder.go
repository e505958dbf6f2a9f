package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wayfarer/backend/internal/domain"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GeocodingService resolves free-text city names to coordinates
type GeocodingService struct {
	apiKey     string
	BaseURL    string
	httpClient *http.Client
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(apiKey string) *GeocodingService {
	return &GeocodingService{
		apiKey:  apiKey,
		BaseURL: defaultGeocodeURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode converts a city name to a coordinate. Unlike the other upstream
// calls this one has no sentinel fallback: a request cannot proceed without
// a location, so any failure is returned to the caller.
func (s *GeocodingService) Geocode(ctx context.Context, city string) (domain.Coordinate, error) {
	params := url.Values{}
	params.Set("address", city)
	params.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocoder: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("geocoder: upstream returned status %d", resp.StatusCode)
	}

	var gr geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}

	if gr.Status != "OK" || len(gr.Results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("geocoder: no results for %q (status %s)", city, gr.Status)
	}

	loc := gr.Results[0].Geometry.Location
	return domain.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}
