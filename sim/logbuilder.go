package sim

import (
	"math"
	"sort"
	"strings"
	"time"

	"eldtrip/backend/model"
)

// daySlice is a timeline event clipped to a single calendar date.
// continuation marks slices after the first of a midnight-crossing event,
// so each original event yields exactly one remark, on its start date.
type daySlice struct {
	ev           model.TimelineEvent
	start, end   time.Time
	continuation bool
}

// BuildDailyLogs groups a flat timeline into per-day ELD log sheets: a
// 24-hour status grid with OFF-duty gap fill, hour totals per status, and
// remarks for the non-driving events. Pure function; an empty timeline
// yields no logs.
func BuildDailyLogs(timeline []model.TimelineEvent) []model.DailyLog {
	logs := []model.DailyLog{}
	if len(timeline) == 0 {
		return logs
	}

	byDate := splitByDate(timeline)
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		slices := byDate[date]
		segments := fillGaps(gridSegments(slices, date))
		logs = append(logs, model.DailyLog{
			Date:     date,
			Segments: segments,
			Totals:   sumTotals(segments),
			Remarks:  remarks(slices),
		})
	}
	return logs
}

// splitByDate slices every event at midnight boundaries and buckets the
// slices by calendar date. Slice durations always sum to the original
// event's duration.
func splitByDate(timeline []model.TimelineEvent) map[string][]daySlice {
	daily := make(map[string][]daySlice)

	for _, ev := range timeline {
		start := ev.StartTime.Time
		end := ev.EndTime.Time
		cur := start

		for dateOf(cur).Before(dateOf(end)) {
			midnight := dateOf(cur).AddDate(0, 0, 1)
			key := cur.Format(model.DateLayout)
			daily[key] = append(daily[key], daySlice{
				ev:           ev,
				start:        cur,
				end:          midnight,
				continuation: !cur.Equal(start),
			})
			cur = midnight
		}
		if cur.Before(end) {
			key := cur.Format(model.DateLayout)
			daily[key] = append(daily[key], daySlice{
				ev:           ev,
				start:        cur,
				end:          end,
				continuation: !cur.Equal(start),
			})
		}
	}
	return daily
}

// gridSegments converts one date's slices into grid rows with fractional
// start/end hours in [0, 24]. Zero-width rows are dropped.
func gridSegments(slices []daySlice, date string) []model.GridSegment {
	segs := make([]model.GridSegment, 0, len(slices))

	for _, sl := range slices {
		sh := float64(sl.start.Hour()) + float64(sl.start.Minute())/60
		eh := 24.0
		if sl.end.Format(model.DateLayout) == date {
			eh = float64(sl.end.Hour()) + float64(sl.end.Minute())/60
		}
		sh = clamp(sh, 0, 24)
		eh = clamp(eh, sh, 24)
		if eh <= sh {
			continue
		}
		segs = append(segs, model.GridSegment{
			Status:       sl.ev.Status,
			StartHour:    round2(sh),
			EndHour:      round2(eh),
			DurationMins: int(sl.end.Sub(sl.start).Minutes()),
		})
	}
	return segs
}

// fillGaps pads the grid with OFF-duty so segments partition [0, 24].
func fillGaps(segs []model.GridSegment) []model.GridSegment {
	if len(segs) == 0 {
		return []model.GridSegment{{Status: model.OffDuty, StartHour: 0, EndHour: 24, DurationMins: 1440}}
	}

	out := make([]model.GridSegment, 0, len(segs)*2)
	if segs[0].StartHour > 0 {
		out = append(out, offSegment(0, segs[0].StartHour))
	}
	for i, seg := range segs {
		out = append(out, seg)
		if i < len(segs)-1 && seg.EndHour < segs[i+1].StartHour {
			out = append(out, offSegment(seg.EndHour, segs[i+1].StartHour))
		}
	}
	if last := out[len(out)-1]; last.EndHour < 24 {
		out = append(out, offSegment(last.EndHour, 24))
	}
	return out
}

func offSegment(sh, eh float64) model.GridSegment {
	return model.GridSegment{
		Status:       model.OffDuty,
		StartHour:    round2(sh),
		EndHour:      round2(eh),
		DurationMins: int(math.Round((eh - sh) * 60)),
	}
}

// sumTotals sums grid hours per duty status. All four statuses appear.
func sumTotals(segs []model.GridSegment) map[model.Status]float64 {
	totals := make(map[model.Status]float64, len(model.Statuses))
	for _, st := range model.Statuses {
		totals[st] = 0
	}
	for _, seg := range segs {
		totals[seg.Status] += seg.EndHour - seg.StartHour
	}
	for st, v := range totals {
		totals[st] = round2(v)
	}
	return totals
}

// remarks pulls stop annotations from the date's slices: non-driving notes
// only, skipping continuations of events that started the previous day.
func remarks(slices []daySlice) []model.Remark {
	out := []model.Remark{}
	for _, sl := range slices {
		note := sl.ev.Note
		if sl.continuation || note == "" || strings.HasPrefix(note, "Driving") {
			continue
		}
		out = append(out, model.Remark{
			Time:     sl.start.Format("15:04"),
			Location: sl.ev.Location,
			Note:     note,
		})
	}
	return out
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
