package models

import "time"

// RouteResult is the aggregated outcome of one route search. Candidates are
// sorted ascending by total price; Errors holds non-fatal failures collected
// while searching.
type RouteResult struct {
	Origin         string
	Destination    string
	WeekStart      time.Time
	Candidates     []TripCandidate
	BestOutbound   *FareListing
	BestReturn     *FareListing
	RelaxedFilters bool
	Errors         []string
}

// BestCombo is the cheapest surviving candidate, or nil when the search
// found nothing.
func (r *RouteResult) BestCombo() *TripCandidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// BestByDayPair picks, per configured day pair, the cheapest candidate whose
// travel dates match that pair. Pairs with no match map to nil.
func (r *RouteResult) BestByDayPair(pairs []DayPair) map[DayPair]*TripCandidate {
	best := make(map[DayPair]*TripCandidate, len(pairs))
	for _, p := range pairs {
		best[p] = nil
		for i := range r.Candidates {
			if r.Candidates[i].MatchesDayPair(p) {
				best[p] = &r.Candidates[i]
				break
			}
		}
	}
	return best
}
