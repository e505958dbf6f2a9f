package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wayfarer/backend/internal/domain"
	"github.com/wayfarer/backend/pkg/utils"
)

const (
	defaultWeatherURL  = "https://api.openweathermap.org/data/2.5/weather"
	defaultForecastURL = "https://api.openweathermap.org/data/2.5/forecast"

	// weatherUnavailable is the current-weather sentinel description
	weatherUnavailable = "Weather data not available"
)

// WeatherService handles current weather and multi-day forecast fetching
type WeatherService struct {
	apiKey      string
	CurrentURL  string
	ForecastURL string
	httpClient  *http.Client
}

// NewWeatherService creates a new weather service
func NewWeatherService(apiKey string) *WeatherService {
	return &WeatherService{
		apiKey:      apiKey,
		CurrentURL:  defaultWeatherURL,
		ForecastURL: defaultForecastURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Current fetches current conditions for a coordinate. Upstream failure
// degrades to an "unavailable" sentinel rather than an error: weather is
// never worth aborting a recommendation for.
func (s *WeatherService) Current(ctx context.Context, loc domain.Coordinate) domain.Weather {
	sentinel := domain.Weather{Description: weatherUnavailable}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", loc.Lat))
	params.Set("lon", fmt.Sprintf("%f", loc.Lng))
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	var ow openWeatherResponse
	if err := s.getJSON(ctx, s.CurrentURL, params, &ow); err != nil {
		return sentinel
	}
	if len(ow.Weather) == 0 {
		return sentinel
	}

	return domain.Weather{
		Description: ow.Weather[0].Description,
		Temperature: ow.Main.Temp,
		Icon:        ow.Weather[0].Icon,
	}
}

type openWeatherForecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"` // "2026-08-30 12:00:00"
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// forecastSample is one fixed-interval forecast point before day grouping
type forecastSample struct {
	Date        string // calendar date portion of the sample timestamp
	Temp        float64
	Description string
}

// Forecast fetches the 3-hourly forecast series and aggregates it into at
// most days calendar-day entries
func (s *WeatherService) Forecast(ctx context.Context, loc domain.Coordinate, days int) ([]domain.ForecastDay, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", loc.Lat))
	params.Set("lon", fmt.Sprintf("%f", loc.Lng))
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	var fr openWeatherForecastResponse
	if err := s.getJSON(ctx, s.ForecastURL, params, &fr); err != nil {
		return nil, fmt.Errorf("weather: forecast fetch failed: %w", err)
	}

	samples := make([]forecastSample, 0, len(fr.List))
	for _, item := range fr.List {
		sample := forecastSample{
			Date: strings.SplitN(item.DtTxt, " ", 2)[0],
			Temp: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			sample.Description = item.Weather[0].Description
		}
		samples = append(samples, sample)
	}

	return groupForecastByDay(samples, days), nil
}

// groupForecastByDay buckets samples by their calendar-date string and
// reduces each bucket to its mean temperature and most frequent description.
// Description ties break to whichever description reached the winning count
// first in sample order, keeping the output deterministic. Days come back in
// lexical date order, which for ISO date strings is chronological.
func groupForecastByDay(samples []forecastSample, days int) []domain.ForecastDay {
	type bucket struct {
		tempSum float64
		count   int
		descs   map[string]int
		best    string
	}

	buckets := make(map[string]*bucket)
	dates := make([]string, 0)

	for _, s := range samples {
		b, ok := buckets[s.Date]
		if !ok {
			b = &bucket{descs: make(map[string]int)}
			buckets[s.Date] = b
			dates = append(dates, s.Date)
		}
		b.tempSum += s.Temp
		b.count++
		if s.Description != "" {
			b.descs[s.Description]++
			// strictly-greater keeps the first description to reach
			// the winning count
			if b.descs[s.Description] > b.descs[b.best] {
				b.best = s.Description
			}
		}
	}

	sort.Strings(dates)
	if days > 0 && len(dates) > days {
		dates = dates[:days]
	}

	result := make([]domain.ForecastDay, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		result = append(result, domain.ForecastDay{
			Date:        date,
			AvgTemp:     utils.RoundTo(b.tempSum/float64(b.count), 2),
			Description: b.best,
		})
	}
	return result
}

func (s *WeatherService) getJSON(ctx context.Context, baseURL string, params url.Values, out interface{}) error {
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
