package sim

import (
	"fmt"
	"math"
	"time"

	"eldtrip/backend/model"
)

// InvalidInputError reports a bad argument to the simulator. HOS situations
// never produce errors; they are resolved by inserting events.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Msg)
}

// window is the 14-hour duty window: either closed, or open since a fixed
// wall-clock instant. Off-duty time inside an open window does not extend it.
type window struct {
	open  bool
	start time.Time
}

// Simulator walks a truck trip forward through logical time, enforcing the
// FMCSA hours-of-service limits by inserting breaks, rests, restarts and fuel
// stops as needed. One instance plans exactly one trip; calls are sequential.
type Simulator struct {
	clock time.Time

	// shift counters, reset by a 10-hour rest
	shiftDriving int // minutes driven this shift
	dutyWindow   window
	sinceBreak   int // driving minutes since last qualifying break

	cycleUsed int // minutes against the 70-hour cycle

	milesSinceFuel float64
	totalMiles     float64

	timeline []model.TimelineEvent
	day      int
}

// New creates a simulator with cycleUsedHours already burned from the 70-hour
// cycle and the logical clock set to start.
func New(cycleUsedHours float64, start time.Time) (*Simulator, error) {
	if cycleUsedHours < 0 || cycleUsedHours >= 70 {
		return nil, &InvalidInputError{Field: "cycle_used_hours", Msg: "must be in [0, 70)"}
	}
	if start.IsZero() {
		return nil, &InvalidInputError{Field: "start_time", Msg: "must be set"}
	}
	return &Simulator{
		clock:     start,
		cycleUsed: int(cycleUsedHours * 60),
		day:       1,
	}, nil
}

// AddPickup emits a 60-minute on-duty loading stop.
func (s *Simulator) AddPickup(location string, lat, lng float64) {
	s.onDutyStop(model.PickupDurationMinutes, model.KindPickup, location, lat, lng, "Loading at pickup")
}

// AddDropoff emits a 60-minute on-duty unloading stop.
func (s *Simulator) AddDropoff(location string, lat, lng float64) {
	s.onDutyStop(model.DropoffDurationMinutes, model.KindDropoff, location, lat, lng, "Unloading at dropoff")
}

// DriveSegment plans approximately distanceMiles of driving at the average
// speed, splitting at fuel intervals and inserting every HOS interrupt the
// regulation requires along the way.
func (s *Simulator) DriveSegment(distanceMiles float64, from, to string, latFrom, lngFrom, latTo, lngTo float64) error {
	if distanceMiles < 0 {
		return &InvalidInputError{Field: "distance_miles", Msg: "must be non-negative"}
	}
	_, _ = latTo, lngTo // markers for driving events sit at the leg origin

	remaining := distanceMiles
	for remaining > 0.5 {
		toFuel := model.FuelStopIntervalMiles - s.milesSinceFuel
		chunkMi := math.Min(remaining, math.Max(toFuel, 0.5))
		chunkMin := int(math.Max(1, math.Round(chunkMi/model.AverageSpeedMPH*60)))

		driven := s.drive(chunkMin, from, to, latFrom, lngFrom)

		actualMi := float64(driven) / 60 * model.AverageSpeedMPH
		remaining -= actualMi
		s.milesSinceFuel += actualMi
		s.totalMiles += actualMi

		if s.milesSinceFuel >= model.FuelStopIntervalMiles && remaining > 0.5 {
			s.fuelStop(from, latFrom, lngFrom)
		}
	}
	return nil
}

// Timeline returns a copy of the emitted events.
func (s *Simulator) Timeline() []model.TimelineEvent {
	out := make([]model.TimelineEvent, len(s.timeline))
	copy(out, s.timeline)
	return out
}

// TotalMiles returns miles driven so far, rounded to one decimal.
func (s *Simulator) TotalMiles() float64 {
	return math.Round(s.totalMiles*10) / 10
}

// CycleUsedHours returns the current cycle balance in hours, one decimal.
func (s *Simulator) CycleUsedHours() float64 {
	return math.Round(float64(s.cycleUsed)/60*10) / 10
}

// Clock returns the current logical time.
func (s *Simulator) Clock() time.Time { return s.clock }

// drive emits driving bursts until mins minutes have been driven, inserting
// whatever breaks, rests or restarts become due between bursts. Always drives
// the full request; the loop replaces the natural tail recursion.
func (s *Simulator) drive(mins int, from, to string, lat, lng float64) int {
	total := 0
	for mins > 0 {
		s.checkCycle(from, lat, lng)
		s.openWindow()

		avail := minInt(
			model.MaxDrivingMinutes-s.shiftDriving,
			s.windowLeft(),
			model.MaxDrivingBeforeBreak-s.sinceBreak,
			model.MaxCycleMinutes-s.cycleUsed,
		)
		if avail <= 0 {
			s.rest(from, lat, lng)
			continue
		}

		now := minInt(mins, avail)
		label := "Driving"
		if from != "" && to != "" {
			label = fmt.Sprintf("Driving: %s → %s", from, to)
		}
		s.emit(model.Driving, model.KindDrive, now, from, lat, lng, label)

		s.shiftDriving += now
		s.sinceBreak += now
		s.cycleUsed += now

		total += now
		mins -= now
		if mins <= 0 {
			break
		}

		// hit a limit mid-segment: clear it, then keep driving
		if s.sinceBreak >= model.MaxDrivingBeforeBreak {
			s.breakStop(from, lat, lng)
		}
		if s.shiftDriving >= model.MaxDrivingMinutes || s.windowLeft() <= 0 {
			s.rest(from, lat, lng)
		}
		s.checkCycle(from, lat, lng)
	}
	return total
}

func (s *Simulator) checkCycle(loc string, lat, lng float64) {
	if s.cycleUsed >= model.MaxCycleMinutes {
		s.emit(model.OffDuty, model.KindRestart, model.CycleRestartMinutes, loc, lat, lng, "34-hour restart (cycle)")
		s.resetShift()
		s.cycleUsed = 0
	}
}

func (s *Simulator) rest(loc string, lat, lng float64) {
	if loc == "" {
		loc = "Rest area"
	}
	s.emit(model.OffDuty, model.KindRest, model.MandatoryRestMinutes, loc, lat, lng, "10-hour off-duty rest")
	s.resetShift()
}

func (s *Simulator) breakStop(loc string, lat, lng float64) {
	if loc == "" {
		loc = "Rest area"
	}
	s.emit(model.OffDuty, model.KindBreak, model.MandatoryBreakMinutes, loc, lat, lng, "30-minute break")
	s.sinceBreak = 0
}

func (s *Simulator) fuelStop(loc string, lat, lng float64) {
	if loc == "" {
		loc = "Fuel station"
	}
	s.openWindow()
	s.emit(model.OnDutyNotDriving, model.KindFuel, model.FuelStopDurationMinutes, loc, lat, lng, "Fuel stop")
	s.milesSinceFuel = 0
	s.cycleUsed += model.FuelStopDurationMinutes
	s.sinceBreak = 0 // a 30-minute non-driving block satisfies the break rule
}

func (s *Simulator) onDutyStop(mins int, kind model.Kind, loc string, lat, lng float64, note string) {
	s.openWindow()
	s.emit(model.OnDutyNotDriving, kind, mins, loc, lat, lng, note)
	s.cycleUsed += mins
	if mins >= model.MandatoryBreakMinutes {
		s.sinceBreak = 0
	}
}

func (s *Simulator) openWindow() {
	if !s.dutyWindow.open {
		s.dutyWindow = window{open: true, start: s.clock}
	}
}

// windowLeft is remaining minutes in the 14-hour window, clamped to >= 0.
func (s *Simulator) windowLeft() int {
	if !s.dutyWindow.open {
		return model.MaxDutyWindowMinutes
	}
	elapsed := int(s.clock.Sub(s.dutyWindow.start).Minutes())
	left := model.MaxDutyWindowMinutes - elapsed
	if left < 0 {
		return 0
	}
	return left
}

func (s *Simulator) resetShift() {
	s.shiftDriving = 0
	s.dutyWindow = window{}
	s.sinceBreak = 0
}

// emit appends an event of mins minutes and advances the clock. The stored
// day is the start day; the running counter advances across midnights so
// later events pick up the new day.
func (s *Simulator) emit(status model.Status, kind model.Kind, mins int, loc string, lat, lng float64, note string) {
	start := s.clock
	end := start.Add(time.Duration(mins) * time.Minute)

	day := s.day
	s.day += daysBetween(start, end)

	s.timeline = append(s.timeline, model.TimelineEvent{
		Status:       status,
		Kind:         kind,
		StartTime:    model.NewTimestamp(start),
		EndTime:      model.NewTimestamp(end),
		DurationMins: mins,
		Location:     loc,
		Lat:          lat,
		Lng:          lng,
		Note:         note,
		Day:          day,
	})
	s.clock = end
}

// daysBetween counts calendar-date boundaries crossed from a to b.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	return int(bd.Sub(ad).Hours() / 24)
}

func minInt(vs ...int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
