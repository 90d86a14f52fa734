// Package links builds Skyscanner and Trainline deep links for the
// notification message.
package links

import (
	"fmt"
	"strings"
	"time"
)

// IATA codes of cities with a usable Trainline route page.
var trainlineCities = map[string]string{
	"MAD": "madrid",
	"BCN": "barcelona",
}

// Skyscanner returns a pre-filled search URL. Pass a nil returnDate for a
// one-way search. Dates are encoded as YYMMDD.
func Skyscanner(origin, destination string, outboundDate time.Time, returnDate *time.Time) string {
	base := fmt.Sprintf(
		"https://www.skyscanner.es/transporte/vuelos/%s/%s/%s/",
		strings.ToLower(origin),
		strings.ToLower(destination),
		outboundDate.Format("060102"),
	)
	if returnDate == nil {
		return base
	}
	return base + returnDate.Format("060102") + "/"
}

// Trainline returns the route page for a city pair, or ok=false when either
// city has no mapped train station.
func Trainline(origin, destination string) (url string, ok bool) {
	from, okFrom := trainlineCities[origin]
	to, okTo := trainlineCities[destination]
	if !okFrom || !okTo {
		return "", false
	}
	return fmt.Sprintf("https://www.thetrainline.com/es/train-times/%s-to-%s", from, to), true
}
