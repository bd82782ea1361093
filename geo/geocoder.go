package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultNominatimURL is the public OpenStreetMap search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// DefaultUserAgent identifies us to Nominatim; their terms require a
// descriptive User-Agent.
const DefaultUserAgent = "ELDTripPlanner/1.0 (trip-planning-application)"

// Nominatim geocodes addresses and serves autocomplete suggestions against
// the OpenStreetMap Nominatim API. One instance owns the 1 req/s rate limit
// for its User-Agent; geocoding and autocomplete share it.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *zap.SugaredLogger
}

// NominatimOptions configures the client. Zero values get defaults.
type NominatimOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewNominatim builds a rate-limited Nominatim client.
func NewNominatim(opt NominatimOptions, log *zap.SugaredLogger) *Nominatim {
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultNominatimURL
	}
	if opt.UserAgent == "" {
		opt.UserAgent = DefaultUserAgent
	}
	if opt.Timeout == 0 {
		opt.Timeout = 10 * time.Second
	}
	return &Nominatim{
		baseURL:   opt.BaseURL,
		userAgent: opt.UserAgent,
		client:    &http.Client{Timeout: opt.Timeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		log:       log,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to coordinates. Returns ErrNotFound (wrapped)
// when Nominatim has no match.
func (n *Nominatim) Geocode(ctx context.Context, address string) (Point, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	results, err := n.search(ctx, q)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("geocode %q: %w", address, ErrNotFound)
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %q: bad latitude: %w", address, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %q: bad longitude: %w", address, err)
	}
	n.log.Infow("geocoded", "address", address, "lat", lat, "lng", lng)
	return Point{Lat: lat, Lng: lng}, nil
}

// Suggest returns up to five North American location candidates for a partial
// query. Short queries and upstream failures yield an empty list, not an
// error; autocomplete is best-effort.
func (n *Nominatim) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	if len(query) < 2 {
		return []Suggestion{}, nil
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", "5")
	q.Set("countrycodes", "us,ca,mx")

	results, err := n.search(ctx, q)
	if err != nil {
		n.log.Warnw("autocomplete lookup failed", "query", query, "err", err)
		return []Suggestion{}, nil
	}
	out := make([]Suggestion, 0, len(results))
	for _, r := range results {
		lat, err1 := strconv.ParseFloat(r.Lat, 64)
		lng, err2 := strconv.ParseFloat(r.Lon, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Suggestion{DisplayName: r.DisplayName, Lat: lat, Lng: lng})
	}
	return out, nil
}

func (n *Nominatim) search(ctx context.Context, q url.Values) ([]nominatimResult, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}
	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim decode: %w", err)
	}
	return results, nil
}
