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

const (
	defaultOverpassURL = "https://overpass-api.de/api/interpreter"

	// defaultTrekRadiusKm is the search radius around the queried city
	defaultTrekRadiusKm = 50
)

// TrekkingService fetches trekking spots from the Overpass open geodata
// interpreter. The open data carries no ratings, so no rating filter applies.
type TrekkingService struct {
	BaseURL    string
	httpClient *http.Client
}

// NewTrekkingService creates a new trekking service
func NewTrekkingService() *TrekkingService {
	return &TrekkingService{
		BaseURL: defaultOverpassURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type overpassResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Treks queries for named hiking attractions and natural peaks within
// radiusKm of origin
func (s *TrekkingService) Treks(ctx context.Context, origin domain.Coordinate, radiusKm int) ([]domain.Place, error) {
	query := fmt.Sprintf(`
	[out:json];
	(
		node["tourism"="attraction"]["hiking"="yes"]["name"~"."](around:%d, %f, %f);
		node["natural"="peak"]["name"~"."](around:%d, %f, %f);
	);
	out center;
	`, radiusKm*1000, origin.Lat, origin.Lng, radiusKm*1000, origin.Lat, origin.Lng)

	params := url.Values{}
	params.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("trekking: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trekking: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trekking: upstream returned status %d", resp.StatusCode)
	}

	var or overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("trekking: failed to decode response: %w", err)
	}

	treks := make([]domain.Place, 0, len(or.Elements))
	for _, el := range or.Elements {
		name := el.Tags["name"]
		if name == "" {
			name = "Unnamed Trek"
		}
		lat, lng := el.Lat, el.Lon
		treks = append(treks, domain.Place{
			Name:       name,
			Category:   "trekking",
			Lat:        &lat,
			Lng:        &lng,
			BestSeason: seasonOctoberToMarch,
		})
	}
	return treks, nil
}
