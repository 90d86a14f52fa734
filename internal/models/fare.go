package models

import "time"

// TransportMode distinguishes flight listings from rail codeshares.
type TransportMode string

const (
	ModeFlight TransportMode = "avión"
	ModeTrain  TransportMode = "tren"
)

// FareListing is one normalized one-way fare. Built once per raw provider
// record and never mutated afterwards.
type FareListing struct {
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureTime time.Time     `json:"departure_time"`
	ArrivalTime   time.Time     `json:"arrival_time"`
	Price         float64       `json:"price"`
	Currency      string        `json:"currency"`
	CarrierCode   string        `json:"carrier_code"`
	CarrierName   string        `json:"carrier_name"`
	Mode          TransportMode `json:"mode"`
	Number        string        `json:"number"`
}

func (f FareListing) DepartureClock() string {
	return f.DepartureTime.Format("15:04")
}

func (f FareListing) ArrivalClock() string {
	return f.ArrivalTime.Format("15:04")
}

// TravelDate is the calendar date of departure.
func (f FareListing) TravelDate() time.Time {
	y, m, d := f.DepartureTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.DepartureTime.Location())
}
