package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultORSURL is the OpenRouteService directions endpoint for heavy goods
// vehicles.
const DefaultORSURL = "https://api.openrouteservice.org/v2/directions/driving-hgv"

const (
	metersToMiles    = 0.000621371
	secondsToMinutes = 1.0 / 60
)

// ORS routes between coordinate pairs via OpenRouteService. Requires an API
// key (free tier is fine).
type ORS struct {
	url    string
	apiKey string
	client *http.Client
	log    *zap.SugaredLogger
}

// ORSOptions configures the client. Zero values get defaults; APIKey is
// required.
type ORSOptions struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// NewORS builds an OpenRouteService directions client.
func NewORS(opt ORSOptions, log *zap.SugaredLogger) *ORS {
	if opt.URL == "" {
		opt.URL = DefaultORSURL
	}
	if opt.Timeout == 0 {
		opt.Timeout = 30 * time.Second
	}
	return &ORS{
		url:    opt.URL,
		apiKey: opt.APIKey,
		client: &http.Client{Timeout: opt.Timeout},
		log:    log,
	}
}

type orsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
		Geometry string `json:"geometry"` // encoded polyline
	} `json:"routes"`
}

// Route returns driving distance, duration and decoded geometry between two
// points. Maps upstream 401/403 to ErrUnauthorized, 429 to ErrQuota, and an
// empty route set to ErrNoRoute.
func (o *ORS) Route(ctx context.Context, from, to Point) (*Route, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("route: %w: no API key configured", ErrUnauthorized)
	}

	// ORS wants [longitude, latitude]
	body, err := json.Marshal(map[string]any{
		"coordinates": [][]float64{{from.Lng, from.Lat}, {to.Lng, to.Lat}},
	})
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("route: %w", ErrUnauthorized)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("route: %w", ErrQuota)
	default:
		return nil, fmt.Errorf("route: ors status %d", resp.StatusCode)
	}

	var data orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("route: decode: %w", err)
	}
	if len(data.Routes) == 0 {
		return nil, fmt.Errorf("route: %w", ErrNoRoute)
	}

	r := data.Routes[0]
	route := &Route{
		DistanceMiles:   math.Round(r.Summary.Distance*metersToMiles*10) / 10,
		DurationMinutes: math.Round(r.Summary.Duration*secondsToMinutes*10) / 10,
	}
	if r.Geometry != "" {
		pts, err := DecodePolyline(r.Geometry)
		if err != nil {
			return nil, fmt.Errorf("route: decode geometry: %w", err)
		}
		route.Geometry = pts
	}
	o.log.Infow("route calculated",
		"distance_miles", route.DistanceMiles,
		"duration_minutes", route.DurationMinutes,
		"geometry_points", len(route.Geometry),
	)
	return route, nil
}
