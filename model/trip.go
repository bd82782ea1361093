package model

import "fmt"

const maxLocationLen = 200

// TripRequest is the validated input to the planning pipeline.
type TripRequest struct {
	CurrentLocation string  `json:"current_location"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	CycleUsedHours  float64 `json:"cycle_used_hours"`
}

// Validate checks field presence and ranges. A non-nil error names the first
// offending field and is safe to return to the client.
func (r TripRequest) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"current_location", r.CurrentLocation},
		{"pickup_location", r.PickupLocation},
		{"dropoff_location", r.DropoffLocation},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s is required", f.name)
		}
		if len(f.value) > maxLocationLen {
			return fmt.Errorf("%s must be at most %d characters", f.name, maxLocationLen)
		}
	}
	if r.CycleUsedHours < 0 || r.CycleUsedHours > 69 {
		return fmt.Errorf("cycle_used_hours must be between 0 and 69")
	}
	return nil
}

// RouteLeg is one routed leg (current→pickup or pickup→dropoff).
type RouteLeg struct {
	From          string       `json:"from"`
	To            string       `json:"to"`
	DistanceMiles float64      `json:"distance_miles"`
	DurationHours float64      `json:"duration_hours"`
	Geometry      [][2]float64 `json:"geometry"` // [lat, lng] pairs
}

// RouteInfo aggregates both legs for map display.
type RouteInfo struct {
	Legs               []RouteLeg `json:"legs"`
	TotalDistanceMiles float64    `json:"total_distance_miles"`
	TotalDurationHours float64    `json:"total_duration_hours"`
}

// StopMarker is a map pin for a non-driving event.
type StopMarker struct {
	Type         string    `json:"type"` // pickup | dropoff | fuel | rest | break | stop
	Location     string    `json:"location"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	StartTime    Timestamp `json:"start_time"`
	DurationMins int       `json:"duration_mins"`
	Note         string    `json:"note"`
}

// TripSummary is the headline numbers shown above the log sheets.
type TripSummary struct {
	TotalDays         int     `json:"total_days"`
	TotalDrivingMiles float64 `json:"total_driving_miles"`
	CycleHoursAtStart float64 `json:"cycle_hours_at_start"`
	CycleHoursAtEnd   float64 `json:"cycle_hours_at_end"`
}

// TripPlan is the full planning result returned to the client.
type TripPlan struct {
	Route     RouteInfo       `json:"route"`
	Timeline  []TimelineEvent `json:"timeline"`
	DailyLogs []DailyLog      `json:"daily_logs"`
	Stops     []StopMarker    `json:"stops"`
	Summary   TripSummary     `json:"summary"`
}
