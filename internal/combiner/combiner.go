// Package combiner builds priced round-trip candidates from one day pair's
// outbound and return listings.
//
// Combination policy: bounded cross product of the TopPerLeg cheapest
// listings on each side (up to TopPerLeg² candidates per day pair), rather
// than a single cheapest×cheapest pair. Both legs must have listings; an
// empty side yields no candidates.
package combiner

import (
	"time"

	"github.com/jotajotaz/bcn-flights/internal/models"
)

// TopPerLeg bounds how many listings per side enter the cross product.
const TopPerLeg = 3

// Combine pairs the cheapest outbound and return listings into trip
// candidates. Both input slices must already be sorted ascending by price.
func Combine(outbound, ret []models.FareListing, outboundDate, returnDate time.Time) []models.TripCandidate {
	return CombineTop(outbound, ret, outboundDate, returnDate, TopPerLeg)
}

// CombineTop is Combine with an explicit per-leg bound.
func CombineTop(outbound, ret []models.FareListing, outboundDate, returnDate time.Time, topPerLeg int) []models.TripCandidate {
	if len(outbound) == 0 || len(ret) == 0 {
		return nil
	}

	if len(outbound) > topPerLeg {
		outbound = outbound[:topPerLeg]
	}
	if len(ret) > topPerLeg {
		ret = ret[:topPerLeg]
	}

	trips := make([]models.TripCandidate, 0, len(outbound)*len(ret))
	for _, out := range outbound {
		for _, back := range ret {
			trips = append(trips, models.TripCandidate{
				Outbound:     out,
				Return:       back,
				OutboundDate: outboundDate,
				ReturnDate:   returnDate,
			})
		}
	}
	return trips
}
