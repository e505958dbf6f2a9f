package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wayfarer/backend/internal/domain"
	"github.com/wayfarer/backend/pkg/utils"
)

const (
	// dedupPrecision rounds coordinates to ~11 m buckets
	dedupPrecision = 4

	// Scoring defaults for records with missing fields
	defaultRating     = 4.0
	defaultTravelMins = 30.0

	// Season labels the adapters assign
	seasonYearRound      = "Year-round"
	seasonOctoberToMarch = "October to March"
)

// seasonWindows maps each best-season label to its in-season months.
// ValidateSeasonWindows checks at startup that every label the adapters can
// emit has an entry here, so a new label without a window fails fast
// instead of silently skipping annotation.
var seasonWindows = map[string][]time.Month{
	seasonOctoberToMarch: {time.October, time.November, time.December, time.January, time.February, time.March},
	seasonYearRound: {
		time.January, time.February, time.March, time.April, time.May, time.June,
		time.July, time.August, time.September, time.October, time.November, time.December,
	},
}

// assignedSeasons lists every label the adapters assign to places
var assignedSeasons = []string{seasonYearRound, seasonOctoberToMarch}

// ValidateSeasonWindows verifies the season table covers every label in use
func ValidateSeasonWindows() error {
	for _, label := range assignedSeasons {
		months, ok := seasonWindows[label]
		if !ok || len(months) == 0 {
			return fmt.Errorf("pipeline: season label %q has no month window", label)
		}
	}
	return nil
}

type coordKey struct {
	lat, lng float64
}

// MergeDuplicates collapses places whose coordinates round to the same
// 4-decimal bucket. The higher numeric rating wins a bucket; on ties, or
// when either rating is unknown, the first-seen record stays. Records
// without coordinates (sentinels) bypass dedup entirely - bucketing them at
// (0,0) would merge unrelated entries. Output preserves first-insert order.
func MergeDuplicates(places []domain.Place) []domain.Place {
	result := make([]domain.Place, 0, len(places))
	index := make(map[coordKey]int)

	for _, p := range places {
		if !p.HasCoordinates() {
			result = append(result, p)
			continue
		}
		key := coordKey{
			lat: utils.RoundTo(*p.Lat, dedupPrecision),
			lng: utils.RoundTo(*p.Lng, dedupPrecision),
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(result)
			result = append(result, p)
			continue
		}
		kept := result[i]
		if p.Rating != nil && kept.Rating != nil && *p.Rating > *kept.Rating {
			result[i] = p
		}
	}
	return result
}

// Score computes the composite desirability score:
// rating*10 + reviews*0.01 - travelMinutes*0.5, plus 1.0 when the place's
// category is among the caller's preferences. Missing rating defaults to
// 4.0, missing reviews to 0, unparseable travel time to 30 minutes.
func Score(p domain.Place, preferences []string) float64 {
	rating := defaultRating
	if p.Rating != nil {
		rating = *p.Rating
	}
	reviews := 0.0
	if p.Reviews != nil {
		reviews = float64(*p.Reviews)
	}

	score := rating*10 + reviews*0.01 - travelMinutes(p.TravelTime)*0.5

	category := strings.ToLower(p.Category)
	for _, pref := range preferences {
		if strings.ToLower(pref) == category {
			score += 1.0
			break
		}
	}
	return score
}

// travelMinutes parses the leading integer of a "<N> mins" string
func travelMinutes(s string) float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return defaultTravelMins
	}
	mins, err := strconv.Atoi(fields[0])
	if err != nil {
		return defaultTravelMins
	}
	return float64(mins)
}

// Rank scores every place and sorts descending. The sort is stable so
// equal-score records keep their original relative order. In rating mode
// the composite score is still computed (it is part of the response shape)
// but ordering uses the raw rating, with unknown ratings sorting last.
func Rank(places []domain.Place, preferences []string, byRating bool) []domain.Place {
	ranked := make([]domain.Place, len(places))
	copy(ranked, places)

	for i := range ranked {
		ranked[i].Score = utils.RoundTo(Score(ranked[i], preferences), 2)
	}

	if byRating {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ratingOrZero(ranked[i]) > ratingOrZero(ranked[j])
		})
	} else {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score > ranked[j].Score
		})
	}
	return ranked
}

func ratingOrZero(p domain.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// FilterByDistance keeps places within maxKm great-circle distance of
// origin (inclusive) and annotates survivors with their distance. Places
// without coordinates are dropped outright, not merely left unfiltered.
func FilterByDistance(places []domain.Place, origin domain.Coordinate, maxKm float64) []domain.Place {
	kept := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if !p.HasCoordinates() {
			continue
		}
		d := utils.Haversine(origin.Lat, origin.Lng, *p.Lat, *p.Lng)
		if d > maxKm {
			continue
		}
		p.DistanceKm = domain.FloatPtr(utils.RoundTo(d, 2))
		kept = append(kept, p)
	}
	return kept
}

// FilterByRating keeps places whose rating is known and at least min
func FilterByRating(places []domain.Place, min float64) []domain.Place {
	kept := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if p.Rating != nil && *p.Rating >= min {
			kept = append(kept, p)
		}
	}
	return kept
}

// AnnotateSeasons attaches an off-season warning to places whose
// best-season window excludes the month of now. Labels without a window
// entry are left untouched.
func AnnotateSeasons(places []domain.Place, now time.Time) []domain.Place {
	month := now.Month()
	for i, p := range places {
		months, ok := seasonWindows[p.BestSeason]
		if !ok {
			continue
		}
		inSeason := false
		for _, m := range months {
			if m == month {
				inSeason = true
				break
			}
		}
		if !inSeason {
			places[i].Warning = fmt.Sprintf("Off-season visit: best time is %s", p.BestSeason)
		}
	}
	return places
}
