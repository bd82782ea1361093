package geo

import "errors"

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Route is a routed leg between two points.
type Route struct {
	DistanceMiles   float64
	DurationMinutes float64
	Geometry        [][2]float64 // [lat, lng] pairs
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

var (
	// ErrNotFound means the geocoder had no result for the address.
	ErrNotFound = errors.New("location not found")
	// ErrNoRoute means the router found no drivable route between the points.
	ErrNoRoute = errors.New("no route found")
	// ErrUnauthorized means the routing API rejected the configured key.
	ErrUnauthorized = errors.New("routing service unauthorized")
	// ErrQuota means the routing API quota is exhausted.
	ErrQuota = errors.New("routing service quota exceeded")
)
