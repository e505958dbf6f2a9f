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
	defaultEventsURL = "https://www.eventbriteapi.com/v3/events/search/"

	// maxEvents caps how many upcoming events go into a response
	maxEvents = 5

	// eventCategories is the fixed category set sent upstream
	eventCategories = "music, arts, culture, sports, food, business"

	// eventSearchRadius widens the search beyond the city itself
	eventSearchRadius = "100km"
)

// EventsService fetches upcoming events near a city
type EventsService struct {
	apiKey     string
	BaseURL    string
	httpClient *http.Client
}

// NewEventsService creates a new events service
func NewEventsService(apiKey string) *EventsService {
	return &EventsService{
		apiKey:  apiKey,
		BaseURL: defaultEventsURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type eventsResponse struct {
	Events []struct {
		Name struct {
			Text string `json:"text"`
		} `json:"name"`
		Start struct {
			Local string `json:"local"`
		} `json:"start"`
		URL string `json:"url"`
	} `json:"events"`
}

// Events returns at most maxEvents upcoming events, relying on the
// upstream date sort. An empty slice with a nil error means the city has
// no matching events.
func (s *EventsService) Events(ctx context.Context, city string) ([]domain.Event, error) {
	params := url.Values{}
	params.Set("location.address", city)
	params.Set("location.within", eventSearchRadius)
	params.Set("sort_by", "date")
	params.Set("categories", eventCategories)
	params.Set("token", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("events: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events: upstream returned status %d", resp.StatusCode)
	}

	var er eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("events: failed to decode response: %w", err)
	}

	events := make([]domain.Event, 0, maxEvents)
	for i, e := range er.Events {
		if i >= maxEvents {
			break
		}
		events = append(events, domain.Event{
			Name: e.Name.Text,
			Date: e.Start.Local,
			URL:  e.URL,
		})
	}
	return events, nil
}
