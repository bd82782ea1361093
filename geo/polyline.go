package geo

import (
	"fmt"
	"math"
)

// DecodePolyline decodes a Google-encoded polyline (precision 5, the ORS
// default) into [lat, lng] pairs. Input truncated mid-coordinate is an error,
// not a partial result.
func DecodePolyline(encoded string) ([][2]float64, error) {
	var decoded [][2]float64
	var lat, lng int
	index := 0

	next := func() (int, error) {
		shift, result := 0, 0
		for {
			if index >= len(encoded) {
				return 0, fmt.Errorf("polyline truncated at byte %d", index)
			}
			c := int(encoded[index]) - 63
			index++
			result |= (c & 0x1F) << shift
			shift += 5
			if c < 0x20 {
				break
			}
		}
		if result&1 != 0 {
			return ^(result >> 1), nil
		}
		return result >> 1, nil
	}

	for index < len(encoded) {
		dlat, err := next()
		if err != nil {
			return nil, err
		}
		dlng, err := next()
		if err != nil {
			return nil, err
		}
		lat += dlat
		lng += dlng
		decoded = append(decoded, [2]float64{float64(lat) / 1e5, float64(lng) / 1e5})
	}
	return decoded, nil
}

// Haversine is the great-circle distance between two points in miles.
func Haversine(a, b Point) float64 {
	const earthRadiusMiles = 3958.8

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PointAlong returns the point at fraction (0..1) of the way along a route
// geometry, by distance. Used to place mid-leg stop markers at approximate
// mileage points.
func PointAlong(geometry [][2]float64, fraction float64) [2]float64 {
	if len(geometry) == 0 {
		return [2]float64{}
	}
	fraction = clampF(fraction, 0, 1)
	if fraction == 0 || len(geometry) == 1 {
		return geometry[0]
	}
	if fraction == 1 {
		return geometry[len(geometry)-1]
	}

	total := 0.0
	segs := make([]float64, 0, len(geometry)-1)
	for i := 1; i < len(geometry); i++ {
		d := Haversine(
			Point{Lat: geometry[i-1][0], Lng: geometry[i-1][1]},
			Point{Lat: geometry[i][0], Lng: geometry[i][1]},
		)
		segs = append(segs, d)
		total += d
	}

	target := total * fraction
	acc := 0.0
	for i, d := range segs {
		if acc+d >= target {
			f := 0.0
			if d > 0 {
				f = (target - acc) / d
			}
			return [2]float64{
				geometry[i][0] + f*(geometry[i+1][0]-geometry[i][0]),
				geometry[i][1] + f*(geometry[i+1][1]-geometry[i][1]),
			}
		}
		acc += d
	}
	return geometry[len(geometry)-1]
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
