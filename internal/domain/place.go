package domain

// Coordinate is a WGS-84 latitude/longitude pair
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place represents a single recommended destination.
// Optional upstream fields use pointers so "unknown" is distinguishable
// from a legitimate zero value.
type Place struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Reviews     *int     `json:"user_ratings,omitempty"`
	TravelTime  string   `json:"travel_time,omitempty"`
	BestSeason  string   `json:"best_season,omitempty"`
	Address     string   `json:"address,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	Score       float64  `json:"score"`
	Warning     string   `json:"warning,omitempty"`
}

// HasCoordinates reports whether the place carries a usable location.
// Sentinel records ("No places found") never do.
func (p Place) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// Event represents an upcoming event near the queried city
type Event struct {
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Recommendation is the assembled /recommend response body
type Recommendation struct {
	Weather      Weather       `json:"weather"`
	Forecast     []ForecastDay `json:"weather_forecast"`
	Destinations []Place       `json:"destinations"`
	Events       []Event       `json:"events"`
}

// FloatPtr returns a pointer to v
func FloatPtr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }
