package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/wayfarer/backend/internal/domain"
)

const (
	defaultPlacesSearchURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	defaultPlaceFindURL    = "https://maps.googleapis.com/maps/api/place/findplacefromtext/json"
	defaultDistanceURL     = "https://maps.googleapis.com/maps/api/distancematrix/json"

	// placeSearchRadiusM is the fixed nearby-search radius in meters
	placeSearchRadiusM = 7000

	// minPlaceRating is a hard business rule, not configurable
	minPlaceRating = 4.0
)

// placeTypes maps a caller preference to upstream place-type tags.
// Unrecognized preferences fall back to "tourist_attraction".
var placeTypes = map[string]string{
	"temple":     "hindu_temple",
	"mosque":     "mosque",
	"church":     "church",
	"historical": "museum, landmark, heritage_site",
	"nature":     "park, zoo, botanical_garden, national_park",
	"adventure":  "amusement_park, hiking_area, theme_park",
	"food":       "restaurant, cafe, bakery, bar",
	"shopping":   "shopping_mall, flea_market, supermarket",
	"beach":      "beach, waterfront",
	"nightlife":  "night_club, casino, bar",
	"wellness":   "spa, wellness_center, yoga_studio",
	"family":     "aquarium, amusement_park, playground, kids_activity",
}

// PlacesService wraps the place-search, place-detail, and travel-time
// upstream APIs, which share one credential
type PlacesService struct {
	apiKey     string
	SearchURL  string
	FindURL    string
	MatrixURL  string
	httpClient *http.Client
}

// NewPlacesService creates a new places service
func NewPlacesService(apiKey string) *PlacesService {
	return &PlacesService{
		apiKey:    apiKey,
		SearchURL: defaultPlacesSearchURL,
		FindURL:   defaultPlaceFindURL,
		MatrixURL: defaultDistanceURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nearbySearchResponse struct {
	Results []struct {
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
	} `json:"results"`
}

// NearbyPlaces searches for places around origin matching the preference.
// Results below the rating floor are discarded. An empty slice with a nil
// error means the upstream answered but nothing qualified.
func (s *PlacesService) NearbyPlaces(ctx context.Context, origin domain.Coordinate, preference string) ([]domain.Place, error) {
	placeType, ok := placeTypes[preference]
	if !ok {
		placeType = "tourist_attraction"
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("radius", fmt.Sprintf("%d", placeSearchRadiusM))
	params.Set("type", placeType)
	params.Set("keyword", fmt.Sprintf("%s, best %s in the city", preference, placeType))
	params.Set("rankby", "prominence")
	params.Set("key", s.apiKey)

	var sr nearbySearchResponse
	if err := s.getJSON(ctx, s.SearchURL, params, &sr); err != nil {
		return nil, fmt.Errorf("places: search failed: %w", err)
	}

	places := make([]domain.Place, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.Rating == nil || *r.Rating < minPlaceRating {
			continue
		}
		lat, lng := r.Geometry.Location.Lat, r.Geometry.Location.Lng
		places = append(places, domain.Place{
			Name:       r.Name,
			Category:   preference,
			Lat:        &lat,
			Lng:        &lng,
			Rating:     r.Rating,
			Reviews:    domain.IntPtr(r.UserRatingsTotal),
			BestSeason: seasonYearRound,
		})
	}
	return places, nil
}

// TrekDetails carries the fields the open geodata source lacks
type TrekDetails struct {
	Rating  *float64
	Reviews *int
	Address string
}

type findPlaceResponse struct {
	Candidates []struct {
		Name             string   `json:"name"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		FormattedAddress string   `json:"formatted_address"`
	} `json:"candidates"`
}

// TrekDetails backfills rating, review count, and address for a trek via a
// best-effort text lookup. It never fails the pipeline: any miss or error
// yields "Unknown" sentinels.
func (s *PlacesService) TrekDetails(ctx context.Context, name string) TrekDetails {
	unknown := TrekDetails{Reviews: domain.IntPtr(0), Address: "Unknown"}

	params := url.Values{}
	params.Set("input", name)
	params.Set("inputtype", "textquery")
	params.Set("fields", "name,rating,user_ratings_total,formatted_address")
	params.Set("key", s.apiKey)

	var fr findPlaceResponse
	if err := s.getJSON(ctx, s.FindURL, params, &fr); err != nil {
		log.Printf("places: trek detail lookup failed for %q: %v", name, err)
		return unknown
	}
	if len(fr.Candidates) == 0 {
		return unknown
	}

	c := fr.Candidates[0]
	details := TrekDetails{
		Rating:  c.Rating,
		Reviews: domain.IntPtr(c.UserRatingsTotal),
		Address: c.FormattedAddress,
	}
	if details.Address == "" {
		details.Address = "Unknown"
	}
	return details
}

type distanceMatrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// TravelTime fetches the live travel time between two coordinates and
// renders it as "<N> mins", or "Unknown" when unavailable
func (s *PlacesService) TravelTime(ctx context.Context, origin, dest domain.Coordinate, mode string) string {
	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destinations", fmt.Sprintf("%f,%f", dest.Lat, dest.Lng))
	params.Set("mode", mode)
	params.Set("departure_time", "now")
	params.Set("traffic_model", "best_guess")
	params.Set("key", s.apiKey)

	var dr distanceMatrixResponse
	if err := s.getJSON(ctx, s.MatrixURL, params, &dr); err != nil {
		log.Printf("places: travel time lookup failed: %v", err)
		return "Unknown"
	}
	if len(dr.Rows) == 0 || len(dr.Rows[0].Elements) == 0 {
		return "Unknown"
	}
	el := dr.Rows[0].Elements[0]
	if el.Status != "OK" {
		return "Unknown"
	}
	return fmt.Sprintf("%d mins", el.Duration.Value/60)
}

// getJSON performs a GET against one of the service's upstream endpoints
// and decodes the body into out
func (s *PlacesService) getJSON(ctx context.Context, baseURL string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
