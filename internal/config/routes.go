package config

import (
	"time"

	"github.com/jotajotaz/bcn-flights/internal/models"
)

// DefaultDayPairs are the weekday combinations worth commuting on.
func DefaultDayPairs() []models.DayPair {
	return []models.DayPair{
		{Outbound: time.Monday, Return: time.Tuesday},
		{Outbound: time.Tuesday, Return: time.Wednesday},
		{Outbound: time.Wednesday, Return: time.Thursday},
		{Outbound: time.Thursday, Return: time.Friday},
	}
}

// DefaultRoutes are the searched city pairs. MAD additionally allows an
// asymmetric return into OVD, and is the only route where standalone
// one-way fares are worth surfacing (the other direction goes by train).
func DefaultRoutes() []models.Route {
	return []models.Route{
		{
			Name:        "MAD",
			Origin:      "MAD",
			Destination: "BCN",
			Combinations: []models.Combination{
				{
					Name:     "MAD↔BCN",
					Outbound: models.Leg{Origin: "MAD", Destination: "BCN"},
					Return:   models.Leg{Origin: "BCN", Destination: "MAD"},
				},
				{
					Name:     "MAD→BCN→OVD",
					Outbound: models.Leg{Origin: "MAD", Destination: "BCN"},
					Return:   models.Leg{Origin: "BCN", Destination: "OVD"},
				},
			},
			SingleLegEligible: true,
		},
		{
			Name:        "OVD",
			Origin:      "OVD",
			Destination: "BCN",
			Combinations: []models.Combination{
				{
					Name:     "OVD↔BCN",
					Outbound: models.Leg{Origin: "OVD", Destination: "BCN"},
					Return:   models.Leg{Origin: "BCN", Destination: "OVD"},
				},
			},
			SingleLegEligible: false,
		},
	}
}
