package models

var carrierNames = map[string]string{
	"IB": "Iberia",
	"VY": "Vueling",
	"UX": "Air Europa",
	"I2": "Iberia Express",
	"FR": "Ryanair",
	"6Y": "SmartLynx",
}

// Rail operators that show up as codeshares in flight-offer responses.
var trainCarriers = map[string]bool{
	"2C": true, // Renfe-SNCF
	"9B": true, // AccesRail
}

// ResolveCarrierName maps a carrier code to its display name, falling back
// to the code itself when unmapped.
func ResolveCarrierName(code string) string {
	if name, ok := carrierNames[code]; ok {
		return name
	}
	return code
}

func CarrierMode(code string) TransportMode {
	if trainCarriers[code] {
		return ModeTrain
	}
	return ModeFlight
}
