package planner

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"eldtrip/backend/geo"
	"eldtrip/backend/model"
	"eldtrip/backend/sim"
)

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}

// Router computes a driving route between two points.
type Router interface {
	Route(ctx context.Context, from, to geo.Point) (*geo.Route, error)
}

// Error is a pipeline-level failure. The HTTP layer reports it as 422 with
// the message; the cause is preserved for logs and errors.Is checks.
type Error struct {
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }
func (e *Error) Unwrap() error { return e.cause }

// Wrap marks err as a pipeline failure.
func Wrap(err error) *Error { return &Error{cause: err} }

// Planner runs the full pipeline: geocode, route both legs, simulate the
// drive under HOS rules, build daily logs and stop markers.
type Planner struct {
	geocoder Geocoder
	router   Router
	log      *zap.SugaredLogger
	now      func() time.Time
}

// New wires a planner. External calls are made serially; the geocoder is
// expected to enforce its own rate limit.
func New(geocoder Geocoder, router Router, log *zap.SugaredLogger) *Planner {
	return &Planner{
		geocoder: geocoder,
		router:   router,
		log:      log,
		now:      time.Now,
	}
}

// PlanTrip plans req end to end. The input must already be validated. Any
// collaborator or simulator failure is returned as *Error with no partial
// result.
func (p *Planner) PlanTrip(ctx context.Context, req model.TripRequest) (*model.TripPlan, error) {
	plan, err := p.plan(ctx, req)
	if err != nil {
		p.log.Errorw("trip planning failed", "err", err)
		return nil, Wrap(err)
	}
	return plan, nil
}

func (p *Planner) plan(ctx context.Context, req model.TripRequest) (*model.TripPlan, error) {
	p.log.Infow("planning trip",
		"current", req.CurrentLocation,
		"pickup", req.PickupLocation,
		"dropoff", req.DropoffLocation,
		"cycle_used_hours", req.CycleUsedHours,
	)

	cur, err := p.geocoder.Geocode(ctx, req.CurrentLocation)
	if err != nil {
		return nil, err
	}
	pick, err := p.geocoder.Geocode(ctx, req.PickupLocation)
	if err != nil {
		return nil, err
	}
	drop, err := p.geocoder.Geocode(ctx, req.DropoffLocation)
	if err != nil {
		return nil, err
	}

	leg1, err := p.router.Route(ctx, cur, pick)
	if err != nil {
		return nil, err
	}
	leg2, err := p.router.Route(ctx, pick, drop)
	if err != nil {
		return nil, err
	}

	s, err := sim.New(req.CycleUsedHours, p.now().Truncate(time.Minute))
	if err != nil {
		return nil, err
	}
	if err := s.DriveSegment(leg1.DistanceMiles, req.CurrentLocation, req.PickupLocation,
		cur.Lat, cur.Lng, pick.Lat, pick.Lng); err != nil {
		return nil, err
	}
	s.AddPickup(req.PickupLocation, pick.Lat, pick.Lng)
	if err := s.DriveSegment(leg2.DistanceMiles, req.PickupLocation, req.DropoffLocation,
		pick.Lat, pick.Lng, drop.Lat, drop.Lng); err != nil {
		return nil, err
	}
	s.AddDropoff(req.DropoffLocation, drop.Lat, drop.Lng)

	timeline := s.Timeline()
	dailyLogs := sim.BuildDailyLogs(timeline)

	return &model.TripPlan{
		Route: model.RouteInfo{
			Legs: []model.RouteLeg{
				legData(req.CurrentLocation, req.PickupLocation, leg1),
				legData(req.PickupLocation, req.DropoffLocation, leg2),
			},
			TotalDistanceMiles: round1(leg1.DistanceMiles + leg2.DistanceMiles),
			TotalDurationHours: round1((leg1.DurationMinutes + leg2.DurationMinutes) / 60),
		},
		Timeline:  timeline,
		DailyLogs: dailyLogs,
		Stops: buildStops(timeline, []legSpan{
			{miles: leg1.DistanceMiles, geometry: leg1.Geometry},
			{startMile: leg1.DistanceMiles, miles: leg2.DistanceMiles, geometry: leg2.Geometry},
		}),
		Summary: model.TripSummary{
			TotalDays:         len(dailyLogs),
			TotalDrivingMiles: s.TotalMiles(),
			CycleHoursAtStart: req.CycleUsedHours,
			CycleHoursAtEnd:   s.CycleUsedHours(),
		},
	}, nil
}

func legData(from, to string, r *geo.Route) model.RouteLeg {
	geom := r.Geometry
	if geom == nil {
		geom = [][2]float64{}
	}
	return model.RouteLeg{
		From:          from,
		To:            to,
		DistanceMiles: round1(r.DistanceMiles),
		DurationHours: round1(r.DurationMinutes / 60),
		Geometry:      geom,
	}
}

// legSpan locates one routed leg on the trip's cumulative mileage axis.
type legSpan struct {
	startMile float64
	miles     float64
	geometry  [][2]float64
}

// buildStops turns non-driving events into map markers, keyed by the kind
// stamped on each event at emission. Fuel stops happen mid-leg, so their
// markers are interpolated along the leg geometry at the mileage driven so
// far; other stops sit at the coordinates stamped on the event.
func buildStops(timeline []model.TimelineEvent, legs []legSpan) []model.StopMarker {
	stops := []model.StopMarker{}
	milesSoFar := 0.0
	for _, ev := range timeline {
		if ev.Status == model.Driving {
			milesSoFar += float64(ev.DurationMins) / 60 * model.AverageSpeedMPH
			continue
		}
		lat, lng := ev.Lat, ev.Lng
		if ev.Kind == model.KindFuel {
			if pt, ok := pointAtMile(legs, milesSoFar); ok {
				lat, lng = pt[0], pt[1]
			}
		}
		stops = append(stops, model.StopMarker{
			Type:         stopType(ev.Kind),
			Location:     ev.Location,
			Lat:          lat,
			Lng:          lng,
			StartTime:    ev.StartTime,
			DurationMins: ev.DurationMins,
			Note:         ev.Note,
		})
	}
	return stops
}

// pointAtMile interpolates the trip coordinate at a cumulative mileage.
func pointAtMile(legs []legSpan, mile float64) ([2]float64, bool) {
	for _, leg := range legs {
		if mile > leg.startMile+leg.miles {
			continue
		}
		if leg.miles <= 0 || len(leg.geometry) == 0 {
			return [2]float64{}, false
		}
		return geo.PointAlong(leg.geometry, (mile-leg.startMile)/leg.miles), true
	}
	return [2]float64{}, false
}

func stopType(k model.Kind) string {
	switch k {
	case model.KindPickup, model.KindDropoff, model.KindFuel, model.KindBreak:
		return string(k)
	case model.KindRest, model.KindRestart:
		return "rest"
	default:
		return "stop"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
