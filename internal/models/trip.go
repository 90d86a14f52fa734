package models

import (
	"fmt"
	"time"
)

// DayPair is a configured (outbound weekday, return weekday) combination
// searched every week.
type DayPair struct {
	Outbound time.Weekday
	Return   time.Weekday
}

// Leg is one directional (origin, destination) segment of a combination.
type Leg struct {
	Origin      string
	Destination string
}

// Combination is a configured origin→via→destination shape. The return leg
// may land at a different airport than the outbound origin.
type Combination struct {
	Name     string
	Outbound Leg
	Return   Leg
}

// Route groups the combinations searched for one city pair, plus the
// per-route single-leg policy.
type Route struct {
	Name              string
	Origin            string
	Destination       string
	Combinations      []Combination
	SingleLegEligible bool
}

// TripCandidate pairs an outbound and a return listing for one round trip.
// Candidates are built by the combiner and never mutated.
type TripCandidate struct {
	Outbound     FareListing
	Return       FareListing
	OutboundDate time.Time
	ReturnDate   time.Time
}

func (t TripCandidate) TotalPrice() float64 {
	return t.Outbound.Price + t.Return.Price
}

func (t TripCandidate) RouteDescription() string {
	return fmt.Sprintf("%s→%s→%s", t.Outbound.Origin, t.Outbound.Destination, t.Return.Destination)
}

// MatchesDayPair reports whether the candidate's travel dates fall on the
// pair's weekdays.
func (t TripCandidate) MatchesDayPair(p DayPair) bool {
	return t.OutboundDate.Weekday() == p.Outbound && t.ReturnDate.Weekday() == p.Return
}
