package service

import (
	"testing"
	"time"

	"github.com/wayfarer/backend/internal/domain"
	"github.com/wayfarer/backend/pkg/utils"
)

func place(name string, lat, lng float64, rating float64) domain.Place {
	return domain.Place{
		Name:   name,
		Lat:    &lat,
		Lng:    &lng,
		Rating: &rating,
	}
}

func TestMergeDuplicatesKeepsHigherRating(t *testing.T) {
	places := []domain.Place{
		place("first", 12.34561, 56.78901, 4.2),
		place("second", 12.34564, 56.78903, 4.6), // rounds to same 4-decimal key
	}

	merged := MergeDuplicates(places)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged place, got %d", len(merged))
	}
	if merged[0].Name != "second" {
		t.Errorf("Expected higher-rated 'second' to win, got %q", merged[0].Name)
	}
}

func TestMergeDuplicatesTieKeepsFirst(t *testing.T) {
	places := []domain.Place{
		place("first", 10.00001, 20.00001, 4.5),
		place("second", 10.00002, 20.00002, 4.5),
	}

	merged := MergeDuplicates(places)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged place, got %d", len(merged))
	}
	if merged[0].Name != "first" {
		t.Errorf("Expected first-seen to win a tie, got %q", merged[0].Name)
	}
}

func TestMergeDuplicatesUnknownRatingKeepsFirst(t *testing.T) {
	second := place("second", 10.0, 20.0, 4.9)
	second.Rating = nil

	merged := MergeDuplicates([]domain.Place{place("first", 10.0, 20.0, 3.0), second})

	if len(merged) != 1 || merged[0].Name != "first" {
		t.Errorf("Expected first record kept when challenger rating unknown, got %+v", merged)
	}
}

func TestMergeDuplicatesPassesSentinelsThrough(t *testing.T) {
	places := []domain.Place{
		{Name: "No places found", Category: "temple"},
		{Name: "Error fetching treks", Category: "trekking"},
		place("real", 10.0, 20.0, 4.5),
	}

	merged := MergeDuplicates(places)

	if len(merged) != 3 {
		t.Fatalf("Expected coordinate-less records to pass through, got %d records", len(merged))
	}
	if merged[0].Name != "No places found" || merged[1].Name != "Error fetching treks" {
		t.Errorf("Expected sentinels preserved in order, got %+v", merged)
	}
}

func TestMergeDuplicatesDistinctKeysKeepOrder(t *testing.T) {
	places := []domain.Place{
		place("a", 10.0, 20.0, 4.1),
		place("b", 11.0, 21.0, 4.2),
		place("c", 12.0, 22.0, 4.3),
	}

	merged := MergeDuplicates(places)

	if len(merged) != 3 {
		t.Fatalf("Expected 3 places, got %d", len(merged))
	}
	for i, want := range []string{"a", "b", "c"} {
		if merged[i].Name != want {
			t.Errorf("Expected %q at index %d, got %q", want, i, merged[i].Name)
		}
	}
}

func TestScoreFormula(t *testing.T) {
	p := domain.Place{
		Name:       "Temple of Tests",
		Category:   "temple",
		Rating:     domain.FloatPtr(4.5),
		Reviews:    domain.IntPtr(200),
		TravelTime: "20 mins",
	}

	// 4.5*10 + 200*0.01 - 20*0.5 = 45 + 2 - 10 = 37
	got := Score(p, []string{"food"})
	if got != 37.0 {
		t.Errorf("Expected score 37.0, got %v", got)
	}

	// +1.0 preference bonus
	got = Score(p, []string{"temple", "food"})
	if got != 38.0 {
		t.Errorf("Expected score 38.0 with preference bonus, got %v", got)
	}
}

func TestScoreDefaults(t *testing.T) {
	p := domain.Place{Name: "Mystery Spot", Category: "nature"}

	// rating 4.0, reviews 0, travel 30: 40 + 0 - 15 = 25
	got := Score(p, nil)
	if got != 25.0 {
		t.Errorf("Expected default score 25.0, got %v", got)
	}
}

func TestTravelMinutesParsing(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"15 mins", 15},
		{"0 mins", 0},
		{"Unknown", 30},
		{"", 30},
		{"soon", 30},
	}
	for _, tc := range cases {
		if got := travelMinutes(tc.in); got != tc.want {
			t.Errorf("travelMinutes(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRankDescendingByScore(t *testing.T) {
	low := place("low", 1, 1, 4.0)
	high := place("high", 2, 2, 5.0)
	high.Reviews = domain.IntPtr(1000)

	ranked := Rank([]domain.Place{low, high}, nil, false)

	if ranked[0].Name != "high" || ranked[1].Name != "low" {
		t.Errorf("Expected descending score order, got %q then %q", ranked[0].Name, ranked[1].Name)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("Expected strictly higher score first, got %v and %v", ranked[0].Score, ranked[1].Score)
	}
}

func TestRankStableOnEqualScores(t *testing.T) {
	a := place("a", 1, 1, 4.0)
	b := place("b", 2, 2, 4.0)
	c := place("c", 3, 3, 4.0)

	ranked := Rank([]domain.Place{a, b, c}, nil, false)

	for i, want := range []string{"a", "b", "c"} {
		if ranked[i].Name != want {
			t.Errorf("Expected original order preserved for ties, got %q at %d", ranked[i].Name, i)
		}
	}
}

func TestRankByRatingMode(t *testing.T) {
	// Composite score would favor "busy" (many reviews); rating mode must not
	busy := place("busy", 1, 1, 4.1)
	busy.Reviews = domain.IntPtr(5000)
	quiet := place("quiet", 2, 2, 4.9)

	ranked := Rank([]domain.Place{busy, quiet}, nil, true)

	if ranked[0].Name != "quiet" {
		t.Errorf("Expected rating mode to rank by raw rating, got %q first", ranked[0].Name)
	}
	if ranked[0].Score == 0 {
		t.Error("Expected score computed even in rating mode")
	}

	// Unknown rating sorts last
	unknown := domain.Place{Name: "unknown"}
	ranked = Rank([]domain.Place{unknown, quiet}, nil, true)
	if ranked[0].Name != "quiet" {
		t.Errorf("Expected unknown rating to sort last, got %q first", ranked[0].Name)
	}
}

func TestFilterByDistanceInclusiveBoundary(t *testing.T) {
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	onEdge := place("edge", 1.0, 0, 4.5) // ~111.19 km due north

	edgeKm := utils.Haversine(origin.Lat, origin.Lng, *onEdge.Lat, *onEdge.Lng)

	kept := FilterByDistance([]domain.Place{onEdge}, origin, edgeKm)
	if len(kept) != 1 {
		t.Fatalf("Expected place at exactly max distance to be kept")
	}
	if kept[0].DistanceKm == nil {
		t.Fatal("Expected surviving place annotated with distance")
	}

	kept = FilterByDistance([]domain.Place{onEdge}, origin, edgeKm-0.01)
	if len(kept) != 0 {
		t.Error("Expected place beyond max distance to be excluded")
	}
}

func TestFilterByDistanceDropsCoordinateless(t *testing.T) {
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	places := []domain.Place{
		{Name: "No places found", Category: "temple"},
		place("near", 0.01, 0.01, 4.5),
	}

	kept := FilterByDistance(places, origin, 100)

	if len(kept) != 1 || kept[0].Name != "near" {
		t.Errorf("Expected coordinate-less records dropped, got %+v", kept)
	}
}

func TestFilterByRatingInclusive(t *testing.T) {
	places := []domain.Place{
		place("exact", 1, 1, 4.0),
		place("below", 2, 2, 3.9),
		{Name: "unknown", Category: "temple"},
	}

	kept := FilterByRating(places, 4.0)

	if len(kept) != 1 || kept[0].Name != "exact" {
		t.Errorf("Expected only the 4.0 rating kept at min 4.0, got %+v", kept)
	}
}

func TestAnnotateSeasonsOffSeason(t *testing.T) {
	trek := domain.Place{Name: "Ridge Walk", Category: "trekking", BestSeason: seasonOctoberToMarch}

	june := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	annotated := AnnotateSeasons([]domain.Place{trek}, june)
	if annotated[0].Warning == "" {
		t.Error("Expected off-season warning in June for an October-March place")
	}

	trek.Warning = ""
	december := time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)
	annotated = AnnotateSeasons([]domain.Place{trek}, december)
	if annotated[0].Warning != "" {
		t.Errorf("Expected no warning in December, got %q", annotated[0].Warning)
	}
}

func TestAnnotateSeasonsYearRoundNeverWarns(t *testing.T) {
	p := domain.Place{Name: "Museum", Category: "historical", BestSeason: seasonYearRound}

	for month := time.January; month <= time.December; month++ {
		now := time.Date(2026, month, 10, 0, 0, 0, 0, time.UTC)
		if got := AnnotateSeasons([]domain.Place{p}, now); got[0].Warning != "" {
			t.Errorf("Expected no warning in %v for year-round place", month)
		}
	}
}

func TestAnnotateSeasonsSkipsUnknownLabel(t *testing.T) {
	sentinel := domain.Place{Name: "No places found", Category: "temple"}

	annotated := AnnotateSeasons([]domain.Place{sentinel}, time.Now())
	if annotated[0].Warning != "" {
		t.Errorf("Expected records without a season label untouched, got %q", annotated[0].Warning)
	}
}

func TestValidateSeasonWindows(t *testing.T) {
	if err := ValidateSeasonWindows(); err != nil {
		t.Errorf("Expected season table to cover all assigned labels: %v", err)
	}
}
