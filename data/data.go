package data

import (
	"strings"

	"eldtrip/backend/geo"
)

// KnownPlaces maps common freight-lane cities to coordinates so the batch
// driver can run without a live geocoder.
var KnownPlaces = map[string]geo.Point{
	"chicago, il":      {Lat: 41.8781, Lng: -87.6298},
	"indianapolis, in": {Lat: 39.7684, Lng: -86.1581},
	"columbus, oh":     {Lat: 39.9612, Lng: -82.9988},
	"dallas, tx":       {Lat: 32.7767, Lng: -96.7970},
	"denver, co":       {Lat: 39.7392, Lng: -104.9903},
	"atlanta, ga":      {Lat: 33.7490, Lng: -84.3880},
	"los angeles, ca":  {Lat: 34.0522, Lng: -118.2437},
	"seattle, wa":      {Lat: 47.6062, Lng: -122.3321},
	"newark, nj":       {Lat: 40.7357, Lng: -74.1724},
	"memphis, tn":      {Lat: 35.1495, Lng: -90.0490},
}

// Lookup resolves a place name case-insensitively.
func Lookup(name string) (geo.Point, bool) {
	p, ok := KnownPlaces[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}
