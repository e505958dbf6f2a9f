package domain

// Weather represents current conditions at the queried location
type Weather struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	Icon        string  `json:"icon"`
}

// ForecastDay is one calendar day of forecast, aggregated from
// finer-grained samples
type ForecastDay struct {
	Date        string  `json:"date"`
	AvgTemp     float64 `json:"avg_temp"`
	Description string  `json:"description"`
}
