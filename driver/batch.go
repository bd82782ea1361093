// Package driver runs offline batch sweeps of the HOS planner: a set of trip
// scenarios goes through the full pipeline with table-backed geocoding and
// straight-line routing, no network needed.
package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"eldtrip/backend/data"
	"eldtrip/backend/geo"
	"eldtrip/backend/model"
	"eldtrip/backend/planner"
	"eldtrip/backend/sim"
)

// roadFactor inflates great-circle distance to an approximate road distance.
const roadFactor = 1.18

// Scenario is one batch trip to plan.
type Scenario struct {
	Name            string  `json:"name"`
	CurrentLocation string  `json:"current_location"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	CycleUsedHours  float64 `json:"cycle_used_hours"`
}

// Options configures a batch run.
type Options struct {
	ScenarioPath string // JSON file with []Scenario; empty = built-in set
	ReportDir    string // write one CSV per scenario when set
	Log          *zap.SugaredLogger
}

// DefaultScenarios is a spread of lane lengths and cycle loads.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "short-fresh", CurrentLocation: "Chicago, IL", PickupLocation: "Indianapolis, IN", DropoffLocation: "Columbus, OH", CycleUsedHours: 0},
		{Name: "short-heavy", CurrentLocation: "Chicago, IL", PickupLocation: "Indianapolis, IN", DropoffLocation: "Columbus, OH", CycleUsedHours: 55},
		{Name: "long-fresh", CurrentLocation: "Chicago, IL", PickupLocation: "Dallas, TX", DropoffLocation: "Los Angeles, CA", CycleUsedHours: 0},
		{Name: "long-near-limit", CurrentLocation: "Newark, NJ", PickupLocation: "Memphis, TN", DropoffLocation: "Seattle, WA", CycleUsedHours: 65},
	}
}

// Run plans every scenario and prints a per-trip report. Any scenario
// failure aborts the batch.
func Run(opt Options) error {
	scenarios := DefaultScenarios()
	if opt.ScenarioPath != "" {
		loaded, err := loadScenarios(opt.ScenarioPath)
		if err != nil {
			return err
		}
		scenarios = loaded
	}

	p := planner.New(tableGeocoder{}, straightLineRouter{}, opt.Log)
	ctx := context.Background()

	for _, sc := range scenarios {
		opt.Log.Infow("batch scenario", "name", sc.Name)
		plan, err := p.PlanTrip(ctx, model.TripRequest{
			CurrentLocation: sc.CurrentLocation,
			PickupLocation:  sc.PickupLocation,
			DropoffLocation: sc.DropoffLocation,
			CycleUsedHours:  sc.CycleUsedHours,
		})
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		fmt.Printf("--- %s ---\n", sc.Name)
		sim.PrintConsoleReport(plan)
		if opt.ReportDir != "" {
			path, err := sim.WriteCSVReport(opt.ReportDir, plan)
			if err != nil {
				return fmt.Errorf("scenario %s: report: %w", sc.Name, err)
			}
			opt.Log.Infow("report written", "scenario", sc.Name, "path", path)
		}
	}
	return nil
}

func loadScenarios(path string) ([]Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenarios: %w", err)
	}
	var scenarios []Scenario
	if err := json.Unmarshal(b, &scenarios); err != nil {
		return nil, fmt.Errorf("scenarios: parse %s: %w", path, err)
	}
	return scenarios, nil
}

// tableGeocoder resolves addresses from the built-in city table.
type tableGeocoder struct{}

func (tableGeocoder) Geocode(_ context.Context, address string) (geo.Point, error) {
	p, ok := data.Lookup(address)
	if !ok {
		return geo.Point{}, fmt.Errorf("geocode %q: %w", address, geo.ErrNotFound)
	}
	return p, nil
}

// straightLineRouter approximates road legs from great-circle distance.
type straightLineRouter struct{}

func (straightLineRouter) Route(_ context.Context, from, to geo.Point) (*geo.Route, error) {
	miles := geo.Haversine(from, to) * roadFactor
	return &geo.Route{
		DistanceMiles:   miles,
		DurationMinutes: miles / model.AverageSpeedMPH * 60,
		Geometry:        [][2]float64{{from.Lat, from.Lng}, {to.Lat, to.Lng}},
	}, nil
}
