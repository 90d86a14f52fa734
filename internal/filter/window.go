package filter

import (
	"fmt"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/models"
)

// ClockTime is a time of day with minute resolution, independent of any date.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "15:04" strings.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Add shifts the clock time by the given minutes, clamped to the same day.
func (c ClockTime) Add(minutes int) ClockTime {
	total := c.Minutes() + minutes
	if total < 0 {
		total = 0
	}
	if total > 23*60+59 {
		total = 23*60 + 59
	}
	return ClockTime{Hour: total / 60, Minute: total % 60}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window bounds a listing by clock time, ignoring dates. A nil bound is
// unconstrained on that side, so the same predicate serves arrival-bounded
// outbound searches and departure-bounded return searches.
type Window struct {
	MaxArrival   *ClockTime
	MinDeparture *ClockTime
}

// Matches reports whether the listing satisfies both bounds. Listings are
// compared at second resolution so an arrival at 10:00:59 does not slip past
// a 10:00 ceiling.
func (w Window) Matches(f models.FareListing) bool {
	if w.MaxArrival != nil {
		if secondsOfDay(f.ArrivalTime) > w.MaxArrival.Minutes()*60 {
			return false
		}
	}
	if w.MinDeparture != nil {
		if secondsOfDay(f.DepartureTime) < w.MinDeparture.Minutes()*60 {
			return false
		}
	}
	return true
}

func secondsOfDay(t time.Time) int {
	return (t.Hour()*60+t.Minute())*60 + t.Second()
}

// Relax widens both bounds by the given margin: later allowed arrivals,
// earlier allowed departures. Nil bounds stay unconstrained.
func (w Window) Relax(marginMinutes int) Window {
	relaxed := Window{}
	if w.MaxArrival != nil {
		t := w.MaxArrival.Add(marginMinutes)
		relaxed.MaxArrival = &t
	}
	if w.MinDeparture != nil {
		t := w.MinDeparture.Add(-marginMinutes)
		relaxed.MinDeparture = &t
	}
	return relaxed
}
