package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wayfarer/backend/internal/domain"
)

// ErrLocationNotFound signals that the queried city could not be resolved.
// This is the only upstream failure that aborts a recommendation.
var ErrLocationNotFound = errors.New("location not found")

// forecastDays is how many forecast-day entries a recommendation carries
const forecastDays = 3

// Sentinel records substituted when an upstream yields nothing or errors,
// so the response shape stays uniform
const (
	sentinelNoPlaces    = "No places found"
	sentinelPlacesError = "Error fetching places"
	sentinelNoTreks     = "No trekking places found"
	sentinelTreksError  = "Error fetching treks"
	sentinelNoEvents    = "No major events found"
	sentinelEventsError = "Error fetching events"
)

// RecommendService runs the per-request aggregation pipeline
type RecommendService struct {
	geo     *GeocodingService
	places  *PlacesService
	treks   *TrekkingService
	weather *WeatherService
	events  *EventsService
	images  *ImageService
}

// NewRecommendService creates a new recommendation service
func NewRecommendService(
	geo *GeocodingService,
	places *PlacesService,
	treks *TrekkingService,
	weather *WeatherService,
	events *EventsService,
	images *ImageService,
) *RecommendService {
	return &RecommendService{
		geo:     geo,
		places:  places,
		treks:   treks,
		weather: weather,
		events:  events,
		images:  images,
	}
}

// Recommend resolves the city, fans out to the place sources per
// preference, then dedups, filters, ranks, and annotates the merged list
// before attaching weather, forecast, and events. Any single adapter
// failure degrades to a sentinel for that slice only.
func (s *RecommendService) Recommend(ctx context.Context, q domain.UserQuery) (domain.Recommendation, error) {
	origin, err := s.geo.Geocode(ctx, q.City)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}

	var all []domain.Place
	for _, pref := range q.Preferences {
		if pref == "trekking" {
			all = append(all, s.fetchTreks(ctx, origin)...)
		} else {
			all = append(all, s.fetchPlaces(ctx, origin, pref, q.TravelMode)...)
		}
	}

	destinations := MergeDuplicates(all)
	if q.MaxDistance != nil {
		destinations = FilterByDistance(destinations, origin, *q.MaxDistance)
	}
	destinations = Rank(destinations, q.Preferences, q.SortBy == "rating")
	if q.MinRating != nil {
		destinations = FilterByRating(destinations, *q.MinRating)
	}
	destinations = AnnotateSeasons(destinations, time.Now())

	forecast, err := s.weather.Forecast(ctx, origin, forecastDays)
	if err != nil {
		log.Printf("recommend: forecast unavailable for %q: %v", q.City, err)
		forecast = []domain.ForecastDay{}
	}

	rec := domain.Recommendation{
		Weather:      s.weather.Current(ctx, origin),
		Forecast:     forecast,
		Destinations: destinations,
		Events:       s.fetchEvents(ctx, q.City),
	}
	if rec.Destinations == nil {
		rec.Destinations = []domain.Place{}
	}
	return rec, nil
}

// fetchPlaces runs the place search for one preference and enriches each
// hit with travel time and, when configured, an image
func (s *RecommendService) fetchPlaces(ctx context.Context, origin domain.Coordinate, pref, travelMode string) []domain.Place {
	places, err := s.places.NearbyPlaces(ctx, origin, pref)
	if err != nil {
		log.Printf("recommend: place search failed for %q: %v", pref, err)
		return []domain.Place{{Name: sentinelPlacesError, Category: pref}}
	}
	if len(places) == 0 {
		return []domain.Place{{Name: sentinelNoPlaces, Category: pref}}
	}

	for i := range places {
		dest := domain.Coordinate{Lat: *places[i].Lat, Lng: *places[i].Lng}
		places[i].TravelTime = s.places.TravelTime(ctx, origin, dest, travelMode)
		if s.images.Enabled() {
			places[i].ImageURL = s.images.ImageURL(ctx, places[i].Name)
		}
	}
	return places
}

// fetchTreks runs the open-geodata trek search and backfills details the
// geodata source lacks
func (s *RecommendService) fetchTreks(ctx context.Context, origin domain.Coordinate) []domain.Place {
	treks, err := s.treks.Treks(ctx, origin, defaultTrekRadiusKm)
	if err != nil {
		log.Printf("recommend: trek search failed: %v", err)
		return []domain.Place{{Name: sentinelTreksError, Category: "trekking"}}
	}
	if len(treks) == 0 {
		return []domain.Place{{Name: sentinelNoTreks, Category: "trekking"}}
	}

	for i := range treks {
		details := s.places.TrekDetails(ctx, treks[i].Name)
		treks[i].Rating = details.Rating
		treks[i].Reviews = details.Reviews
		treks[i].Address = details.Address
		if s.images.Enabled() {
			treks[i].ImageURL = s.images.ImageURL(ctx, treks[i].Name)
		}
	}
	return treks
}

func (s *RecommendService) fetchEvents(ctx context.Context, city string) []domain.Event {
	events, err := s.events.Events(ctx, city)
	if err != nil {
		log.Printf("recommend: event search failed for %q: %v", city, err)
		return []domain.Event{{Name: sentinelEventsError}}
	}
	if len(events) == 0 {
		return []domain.Event{{Name: sentinelNoEvents}}
	}
	return events
}
