package domain

import "strings"

// RecommendRequest is the raw /recommend body. Preferences may arrive as a
// comma-separated string or a JSON array; min_rating and max_distance may
// arrive as anything, and non-numeric values are silently ignored.
type RecommendRequest struct {
	City        string      `json:"city"`
	Preferences interface{} `json:"preferences"`
	TravelMode  string      `json:"travel_mode"`
	SortBy      string      `json:"sort_by"`
	MinRating   interface{} `json:"min_rating"`
	MaxDistance interface{} `json:"max_distance"`
}

// UserQuery is the normalized form consumed by the pipeline
type UserQuery struct {
	City        string
	Preferences []string
	TravelMode  string
	SortBy      string
	MinRating   *float64
	MaxDistance *float64
}

// Normalize converts the raw request into a UserQuery. Preferences are
// trimmed, lowercased, and kept in caller order; empty entries are dropped.
func (r RecommendRequest) Normalize() UserQuery {
	q := UserQuery{
		City:        strings.TrimSpace(r.City),
		TravelMode:  r.TravelMode,
		SortBy:      r.SortBy,
		MinRating:   asFloat(r.MinRating),
		MaxDistance: asFloat(r.MaxDistance),
	}
	if q.TravelMode == "" {
		q.TravelMode = "driving"
	}

	switch prefs := r.Preferences.(type) {
	case string:
		for _, p := range strings.Split(prefs, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				q.Preferences = append(q.Preferences, p)
			}
		}
	case []interface{}:
		for _, v := range prefs {
			if s, ok := v.(string); ok {
				if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
					q.Preferences = append(q.Preferences, s)
				}
			}
		}
	}
	return q
}

// asFloat coerces a decoded JSON value to a float, returning nil for
// anything non-numeric
func asFloat(v interface{}) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}
