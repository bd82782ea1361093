package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldtrip/backend/model"
)

func startAt(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
}

func countKind(timeline []model.TimelineEvent, k model.Kind) int {
	n := 0
	for _, ev := range timeline {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

// checkContiguity verifies each event starts exactly where the previous one
// ended.
func checkContiguity(t *testing.T, timeline []model.TimelineEvent) {
	t.Helper()
	for i := 1; i < len(timeline); i++ {
		require.True(t, timeline[i-1].EndTime.Equal(timeline[i].StartTime.Time),
			"event %d not contiguous: %v != %v", i, timeline[i-1].EndTime, timeline[i].StartTime)
	}
}

// checkLegality replays the timeline and asserts the HOS counters never
// exceed their limits. cycleUsedHours is the balance carried into the trip.
func checkLegality(t *testing.T, timeline []model.TimelineEvent, cycleUsedHours float64) {
	t.Helper()
	shiftDriving, sinceBreak := 0, 0
	cycleUsed := int(cycleUsedHours * 60)
	var windowStart time.Time
	windowOpen := false

	for i, ev := range timeline {
		switch ev.Status {
		case model.Driving, model.OnDutyNotDriving:
			if !windowOpen {
				windowOpen = true
				windowStart = ev.StartTime.Time
			}
			cycleUsed += ev.DurationMins
			require.LessOrEqual(t, cycleUsed, model.MaxCycleMinutes, "event %d: over the 70h cycle", i)
		}
		if ev.Kind == model.KindRestart {
			cycleUsed = 0
		}
		if ev.Status == model.Driving {
			shiftDriving += ev.DurationMins
			sinceBreak += ev.DurationMins
			require.LessOrEqual(t, shiftDriving, model.MaxDrivingMinutes, "event %d: shift driving over 11h", i)
			require.LessOrEqual(t, sinceBreak, model.MaxDrivingBeforeBreak, "event %d: drove past break limit", i)
			require.True(t, windowOpen)
			windowEnd := windowStart.Add(model.MaxDutyWindowMinutes * time.Minute)
			require.False(t, ev.EndTime.After(windowEnd), "event %d: driving past 14h window", i)
		} else if ev.DurationMins >= model.MandatoryBreakMinutes {
			sinceBreak = 0
		}
		if ev.Status == model.OffDuty && ev.DurationMins >= model.MandatoryRestMinutes {
			shiftDriving, sinceBreak = 0, 0
			windowOpen = false
		}
	}
}

// checkMileage asserts driving minutes at average speed agree with
// TotalMiles to within a mile.
func checkMileage(t *testing.T, s *Simulator) {
	t.Helper()
	mins := 0
	for _, ev := range s.Timeline() {
		if ev.Status == model.Driving {
			mins += ev.DurationMins
		}
	}
	assert.InDelta(t, float64(mins)/60*model.AverageSpeedMPH, s.TotalMiles(), 1.0)
}

func TestNewValidation(t *testing.T) {
	start := startAt(t)

	_, err := New(-1, start)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)

	_, err = New(70, start)
	require.ErrorAs(t, err, &invalid)

	_, err = New(0, time.Time{})
	require.ErrorAs(t, err, &invalid)

	s, err := New(69.9, start)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestDriveSegmentRejectsNegativeMiles(t *testing.T) {
	s, err := New(0, startAt(t))
	require.NoError(t, err)

	err = s.DriveSegment(-5, "A", "B", 0, 0, 0, 0)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, s.Timeline(), "no state mutated on invalid input")
}

func TestDriveSegmentZeroMiles(t *testing.T) {
	s, err := New(0, startAt(t))
	require.NoError(t, err)
	require.NoError(t, s.DriveSegment(0, "A", "B", 0, 0, 0, 0))
	assert.Empty(t, s.Timeline())
	assert.Equal(t, 0.0, s.TotalMiles())
}

// 700 miles for a fresh driver: exceeds both the 8h break limit and the 11h
// driving limit, so exactly one 30-minute break and one 10-hour rest.
func TestSevenHundredMileDrive(t *testing.T) {
	s, err := New(0, startAt(t))
	require.NoError(t, err)
	require.NoError(t, s.DriveSegment(700, "Chicago", "Dallas", 41.88, -87.63, 32.78, -96.80))

	timeline := s.Timeline()
	checkContiguity(t, timeline)
	checkLegality(t, timeline, 0)
	checkMileage(t, s)

	assert.GreaterOrEqual(t, countKind(timeline, model.KindDrive), 1)
	assert.Equal(t, 1, countKind(timeline, model.KindBreak))
	assert.Equal(t, 1, countKind(timeline, model.KindRest))
	assert.Equal(t, 0, countKind(timeline, model.KindRestart))
	assert.Equal(t, 0, countKind(timeline, model.KindFuel))
	assert.InDelta(t, 700, s.TotalMiles(), 1)

	// the break follows exactly 8h of driving
	var beforeBreak int
	for _, ev := range timeline {
		if ev.Kind == model.KindBreak {
			break
		}
		if ev.Status == model.Driving {
			beforeBreak += ev.DurationMins
		}
	}
	assert.Equal(t, model.MaxDrivingBeforeBreak, beforeBreak)
}

// Full trip with a part-used cycle: two on-duty stops, no rest needed, cycle
// balance grows by driving time plus two hours of loading.
func TestFullTripHeavyCycle(t *testing.T) {
	s, err := New(10, startAt(t))
	require.NoError(t, err)

	require.NoError(t, s.DriveSegment(300, "Chicago", "Indy", 41.88, -87.63, 39.77, -86.16))
	s.AddPickup("Indy", 39.77, -86.16)
	require.NoError(t, s.DriveSegment(175, "Indy", "Columbus", 39.77, -86.16, 39.96, -83.00))
	s.AddDropoff("Columbus", 39.96, -83.00)

	timeline := s.Timeline()
	checkContiguity(t, timeline)
	checkLegality(t, timeline, 10)
	checkMileage(t, s)

	assert.Equal(t, 1, countKind(timeline, model.KindPickup))
	assert.Equal(t, 1, countKind(timeline, model.KindDropoff))
	assert.Equal(t, 0, countKind(timeline, model.KindRest))
	for _, ev := range timeline {
		if ev.Kind == model.KindPickup || ev.Kind == model.KindDropoff {
			assert.Equal(t, model.OnDutyNotDriving, ev.Status)
			assert.Equal(t, 60, ev.DurationMins)
		}
	}
	// 10h carried in + ~8.6h driving + 2h loading
	assert.InDelta(t, 20.6, s.CycleUsedHours(), 0.2)
}

// A nearly exhausted cycle forces a 34-hour restart within the first half
// hour of driving; the rest of the trip completes on the fresh cycle.
func TestCycleExhaustionRestart(t *testing.T) {
	s, err := New(69.5, startAt(t))
	require.NoError(t, err)
	require.NoError(t, s.DriveSegment(100, "Chicago", "Indy", 0, 0, 0, 0))

	timeline := s.Timeline()
	checkContiguity(t, timeline)
	checkLegality(t, timeline, 69.5)
	checkMileage(t, s)

	require.Equal(t, 1, countKind(timeline, model.KindRestart))

	var drivenBefore int
	var restart model.TimelineEvent
	for _, ev := range timeline {
		if ev.Kind == model.KindRestart {
			restart = ev
			break
		}
		if ev.Status == model.Driving {
			drivenBefore += ev.DurationMins
		}
	}
	assert.LessOrEqual(t, drivenBefore, 30)
	assert.Equal(t, model.CycleRestartMinutes, restart.DurationMins)
	assert.Equal(t, model.OffDuty, restart.Status)
	assert.InDelta(t, 100, s.TotalMiles(), 1)
}

// 1200 miles crosses one fuel interval: exactly one fuel stop, after at
// least 1000 miles of driving.
func TestFuelInterval(t *testing.T) {
	s, err := New(0, startAt(t))
	require.NoError(t, err)
	require.NoError(t, s.DriveSegment(1200, "Denver", "Atlanta", 0, 0, 0, 0))

	timeline := s.Timeline()
	checkContiguity(t, timeline)
	checkLegality(t, timeline, 0)
	checkMileage(t, s)

	require.Equal(t, 1, countKind(timeline, model.KindFuel))

	var milesBefore float64
	for _, ev := range timeline {
		if ev.Kind == model.KindFuel {
			assert.Equal(t, model.OnDutyNotDriving, ev.Status)
			assert.Equal(t, model.FuelStopDurationMinutes, ev.DurationMins)
			break
		}
		if ev.Status == model.Driving {
			milesBefore += float64(ev.DurationMins) / 60 * model.AverageSpeedMPH
		}
	}
	assert.GreaterOrEqual(t, milesBefore, float64(model.FuelStopIntervalMiles)-1)
	assert.InDelta(t, 1200, s.TotalMiles(), 1)
}

// Pickup opens the duty window and its 60 on-duty minutes satisfy the
// 30-minute break rule.
func TestPickupOpensWindowAndClearsBreak(t *testing.T) {
	s, err := New(0, startAt(t))
	require.NoError(t, err)

	s.AddPickup("Chicago", 41.88, -87.63)
	require.NoError(t, s.DriveSegment(400, "Chicago", "Dallas", 0, 0, 0, 0))

	timeline := s.Timeline()
	checkContiguity(t, timeline)
	checkLegality(t, timeline, 0)

	// 400 mi is under 8h of driving: no break needed after the pickup
	assert.Equal(t, 0, countKind(timeline, model.KindBreak))
	assert.Equal(t, model.OnDutyNotDriving, timeline[0].Status)
}

func TestDayTagging(t *testing.T) {
	// start late so the first rest crosses midnight
	s, err := New(0, time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.DriveSegment(700, "A", "B", 0, 0, 0, 0))

	timeline := s.Timeline()
	assert.Equal(t, 1, timeline[0].Day)
	last := timeline[len(timeline)-1]
	assert.Greater(t, last.Day, 1, "multi-day trip advances the day counter")
}

func TestTimelineReturnsCopy(t *testing.T) {
	s, err := New(0, startAt(t))
	require.NoError(t, err)
	require.NoError(t, s.DriveSegment(100, "A", "B", 0, 0, 0, 0))

	tl := s.Timeline()
	tl[0].Note = "mutated"
	assert.NotEqual(t, "mutated", s.Timeline()[0].Note)
}
