package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/filter"
	"github.com/jotajotaz/bcn-flights/internal/models"
	"github.com/jotajotaz/bcn-flights/internal/providers"
)

// fakeProvider honors the provider contract: it window-filters and
// price-sorts its canned listings per (origin, destination, date).
type fakeProvider struct {
	mu       sync.Mutex
	listings map[string][]models.FareListing
	failOn   map[string]error
	calls    int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		listings: make(map[string][]models.FareListing),
		failOn:   make(map[string]error),
	}
}

func legKey(origin, dest string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s", origin, dest, date.Format("2006-01-02"))
}

func (f *fakeProvider) add(l models.FareListing) {
	key := legKey(l.Origin, l.Destination, l.TravelDate())
	f.listings[key] = append(f.listings[key], l)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, q providers.Query) ([]models.FareListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	key := legKey(q.Origin, q.Destination, q.Date)
	if err := f.failOn[key]; err != nil {
		return nil, err
	}

	var out []models.FareListing
	for _, l := range f.listings[key] {
		if q.Window.Matches(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func fareAt(origin, dest string, day, depHour, depMin int, price float64) models.FareListing {
	dep := time.Date(2026, 1, day, depHour, depMin, 0, 0, time.UTC)
	return models.FareListing{
		Origin:        origin,
		Destination:   dest,
		DepartureTime: dep,
		ArrivalTime:   dep.Add(75 * time.Minute),
		Price:         price,
		Currency:      "EUR",
		CarrierCode:   "VY",
		CarrierName:   "Vueling",
		Mode:          models.ModeFlight,
		Number:        "1234",
	}
}

func testConfig(pairs ...models.DayPair) Config {
	maxArrival := filter.ClockTime{Hour: 10}
	minDeparture := filter.ClockTime{Hour: 17}
	if len(pairs) == 0 {
		pairs = []models.DayPair{{Outbound: time.Monday, Return: time.Tuesday}}
	}
	return Config{
		OutboundWindow:       filter.Window{MaxArrival: &maxArrival},
		ReturnWindow:         filter.Window{MinDeparture: &minDeparture},
		RelaxedMarginMinutes: 60,
		MinPrice:             20,
		MaxPrice:             500,
		SingleLegThreshold:   45,
		Workers:              2,
		DayPairs:             pairs,
	}
}

func testRoute(eligible bool) models.Route {
	return models.Route{
		Name:        "MAD",
		Origin:      "MAD",
		Destination: "BCN",
		Combinations: []models.Combination{
			{
				Name:     "MAD↔BCN",
				Outbound: models.Leg{Origin: "MAD", Destination: "BCN"},
				Return:   models.Leg{Origin: "BCN", Destination: "MAD"},
			},
		},
		SingleLegEligible: eligible,
	}
}

// Wednesday 2026-01-28 falls in the week starting Monday 2026-01-26.
var targetDate = time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC), "2026-01-26"},  // Monday maps to itself
		{time.Date(2026, 1, 28, 15, 4, 5, 0, time.UTC), "2026-01-26"}, // mid-week, time of day dropped
		{time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "2026-01-26"},   // Sunday belongs to the preceding Monday
		{time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), "2026-02-02"},
	}

	for _, tt := range tests {
		if got := WeekStart(tt.in).Format("2006-01-02"); got != tt.want {
			t.Errorf("WeekStart(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSearchRouteBestCombo(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 50)) // Monday outbound, arrives 08:45
	p.add(fareAt("BCN", "MAD", 27, 18, 0, 60)) // Tuesday return

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if got := result.WeekStart.Format("2006-01-02"); got != "2026-01-26" {
		t.Errorf("WeekStart = %s, want 2026-01-26", got)
	}
	if result.RelaxedFilters {
		t.Error("RelaxedFilters should be false")
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	best := result.BestCombo()
	if best == nil {
		t.Fatal("expected a best combo")
	}
	if best.TotalPrice() != 110 {
		t.Errorf("best total = %v, want 110", best.TotalPrice())
	}
	if got := best.OutboundDate.Format("2006-01-02"); got != "2026-01-26" {
		t.Errorf("outbound date = %s, want 2026-01-26", got)
	}
	if best.OutboundDate.Weekday() != time.Monday || best.ReturnDate.Weekday() != time.Tuesday {
		t.Errorf("weekdays = %v/%v, want Monday/Tuesday", best.OutboundDate.Weekday(), best.ReturnDate.Weekday())
	}
}

func TestSearchRouteSortsByTotalPrice(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 80))
	p.add(fareAt("MAD", "BCN", 26, 6, 30, 50))
	p.add(fareAt("BCN", "MAD", 27, 18, 0, 60))
	p.add(fareAt("BCN", "MAD", 27, 20, 0, 40))

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if len(result.Candidates) != 4 {
		t.Fatalf("got %d candidates, want 4", len(result.Candidates))
	}
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i-1].TotalPrice() > result.Candidates[i].TotalPrice() {
			t.Fatalf("candidates not sorted: %v before %v",
				result.Candidates[i-1].TotalPrice(), result.Candidates[i].TotalPrice())
		}
	}
	if result.Candidates[0].TotalPrice() != 90 {
		t.Errorf("cheapest total = %v, want 90", result.Candidates[0].TotalPrice())
	}
}

func TestSearchRouteMissingLegProducesNoCandidates(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 50)) // outbound only

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if len(result.Candidates) != 0 {
		t.Errorf("got %d candidates without a return leg", len(result.Candidates))
	}
}

func TestSearchRouteRelaxation(t *testing.T) {
	p := newFakeProvider()
	// Arrives 10:30, outside the strict 10:00 bound but inside 11:00 relaxed.
	p.add(fareAt("MAD", "BCN", 26, 9, 15, 50))
	// Departs 16:30, before the strict 17:00 bound but after 16:00 relaxed.
	p.add(fareAt("BCN", "MAD", 27, 16, 30, 60))

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if !result.RelaxedFilters {
		t.Fatal("RelaxedFilters should be true")
	}
	if best := result.BestCombo(); best == nil || best.TotalPrice() != 110 {
		t.Errorf("best combo = %+v, want 110 total", best)
	}
}

func TestSearchRouteRelaxationExhausted(t *testing.T) {
	s := New(newFakeProvider(), testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if !result.RelaxedFilters {
		t.Error("RelaxedFilters should be true when the strict pass is empty")
	}
	if len(result.Candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(result.Candidates))
	}
	if len(result.Errors) != 0 {
		t.Errorf("an empty week is not an error, got %v", result.Errors)
	}
}

func TestSearchRoutePriceSanityFilter(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 0))  // glitched 0€ fare
	p.add(fareAt("BCN", "MAD", 27, 18, 0, 10)) // total 10 < MinPrice

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if len(result.Candidates) != 0 {
		t.Errorf("glitched fares survived the sanity filter: %d candidates", len(result.Candidates))
	}
	// The strict pass did produce combinations, so no relaxation ran.
	if result.RelaxedFilters {
		t.Error("sanity-filtered candidates must not trigger relaxation")
	}
}

func TestSearchRouteProviderFailureIsNonFatal(t *testing.T) {
	pairs := []models.DayPair{
		{Outbound: time.Monday, Return: time.Tuesday},
		{Outbound: time.Tuesday, Return: time.Wednesday},
	}

	p := newFakeProvider()
	p.failOn[legKey("MAD", "BCN", time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC))] = errors.New("boom")
	p.add(fareAt("MAD", "BCN", 27, 7, 30, 50))
	p.add(fareAt("BCN", "MAD", 28, 18, 0, 60))

	s := New(p, testConfig(pairs...), nil)
	result := s.SearchRoute(context.Background(), testRoute(false), targetDate)

	if best := result.BestCombo(); best == nil || best.TotalPrice() != 110 {
		t.Errorf("search did not continue past the failed leg: %+v", best)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if result.RelaxedFilters {
		t.Error("a recovered failure must not mark the result relaxed")
	}
}

func TestSearchRouteSingleLegs(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 30)) // below the 45€ threshold
	p.add(fareAt("BCN", "MAD", 27, 18, 0, 60)) // above it

	cfg := testConfig()

	eligible := New(p, cfg, nil).SearchRoute(context.Background(), testRoute(true), targetDate)
	if eligible.BestOutbound == nil || eligible.BestOutbound.Price != 30 {
		t.Errorf("BestOutbound = %+v, want the 30€ listing", eligible.BestOutbound)
	}
	if eligible.BestReturn != nil {
		t.Errorf("BestReturn = %+v, want nil (cheapest return is 60€)", eligible.BestReturn)
	}

	ineligible := New(p, cfg, nil).SearchRoute(context.Background(), testRoute(false), targetDate)
	if ineligible.BestOutbound != nil || ineligible.BestReturn != nil {
		t.Error("ineligible route must never surface single legs")
	}
}

func TestSearchRouteSingleLegThresholdIsStrict(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 45)) // exactly at the threshold
	p.add(fareAt("BCN", "MAD", 27, 18, 0, 60))

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(true), targetDate)

	if result.BestOutbound != nil {
		t.Errorf("a listing at exactly the threshold must not surface: %+v", result.BestOutbound)
	}
}

func TestSearchRouteSingleLegIgnoresGlitchedPrices(t *testing.T) {
	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 0))  // glitched, below MinPrice
	p.add(fareAt("MAD", "BCN", 26, 6, 30, 30)) // the real cheap one
	p.add(fareAt("BCN", "MAD", 27, 18, 0, 60))

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), testRoute(true), targetDate)

	if result.BestOutbound == nil || result.BestOutbound.Price != 30 {
		t.Errorf("BestOutbound = %+v, want the 30€ listing", result.BestOutbound)
	}
}

func TestSearchRouteAsymmetricCombination(t *testing.T) {
	route := models.Route{
		Name:        "MAD",
		Origin:      "MAD",
		Destination: "BCN",
		Combinations: []models.Combination{
			{
				Name:     "MAD→BCN→OVD",
				Outbound: models.Leg{Origin: "MAD", Destination: "BCN"},
				Return:   models.Leg{Origin: "BCN", Destination: "OVD"},
			},
		},
	}

	p := newFakeProvider()
	p.add(fareAt("MAD", "BCN", 26, 7, 30, 50))
	p.add(fareAt("BCN", "OVD", 27, 18, 0, 40))

	s := New(p, testConfig(), nil)
	result := s.SearchRoute(context.Background(), route, targetDate)

	best := result.BestCombo()
	if best == nil {
		t.Fatal("expected a best combo")
	}
	if got := best.RouteDescription(); got != "MAD→BCN→OVD" {
		t.Errorf("RouteDescription() = %s", got)
	}
	if best.TotalPrice() != 90 {
		t.Errorf("total = %v, want 90", best.TotalPrice())
	}
}
