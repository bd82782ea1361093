package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"eldtrip/backend/model"
)

// WriteCSVReport writes a per-day CSV report of a plan to the given path or
// directory. If reportPath is a directory, a timestamped file is created
// inside it; if it is a file, a timestamp is suffixed before the extension.
func WriteCSVReport(reportPath string, plan *model.TripPlan) (string, error) {
	if reportPath == "" {
		return "", nil
	}
	ts := time.Now().Format("20060102-150405")
	outPath := reportPath
	if fi, err := os.Stat(outPath); err == nil && fi.IsDir() {
		outPath = filepath.Join(outPath, fmt.Sprintf("trip-%s.csv", ts))
	} else {
		ext := filepath.Ext(outPath)
		base := outPath[:len(outPath)-len(ext)]
		outPath = fmt.Sprintf("%s-%s%s", base, ts, ext)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintln(f, "section,date,off_hours,sb_hours,driving_hours,on_duty_hours,remarks,total_days,driving_miles,cycle_start_h,cycle_end_h,timestamp")
	for _, dl := range plan.DailyLogs {
		fmt.Fprintf(f, "day,%s,%.2f,%.2f,%.2f,%.2f,%d,,,,,%s\n",
			dl.Date,
			dl.Totals[model.OffDuty], dl.Totals[model.SleeperBerth],
			dl.Totals[model.Driving], dl.Totals[model.OnDutyNotDriving],
			len(dl.Remarks), ts)
	}
	s := plan.Summary
	fmt.Fprintf(f, "summary,,,,,,,%d,%.1f,%.1f,%.1f,%s\n",
		s.TotalDays, s.TotalDrivingMiles, s.CycleHoursAtStart, s.CycleHoursAtEnd, ts)
	return outPath, nil
}

// PrintConsoleReport prints a human-readable plan summary to stdout.
func PrintConsoleReport(plan *model.TripPlan) {
	fmt.Println("=== Trip Plan ===")
	fmt.Printf("Days on the road: %d\n", plan.Summary.TotalDays)
	fmt.Printf("Driving miles: %.1f\n", plan.Summary.TotalDrivingMiles)
	fmt.Printf("Cycle hours: %.1f -> %.1f\n", plan.Summary.CycleHoursAtStart, plan.Summary.CycleHoursAtEnd)
	for _, dl := range plan.DailyLogs {
		fmt.Printf("%s  OFF=%.2f SB=%.2f D=%.2f ON=%.2f\n",
			dl.Date,
			dl.Totals[model.OffDuty], dl.Totals[model.SleeperBerth],
			dl.Totals[model.Driving], dl.Totals[model.OnDutyNotDriving])
		for _, r := range dl.Remarks {
			fmt.Printf("  %s  %s", r.Time, r.Note)
			if r.Location != "" {
				fmt.Printf(" @ %s", r.Location)
			}
			fmt.Println()
		}
	}
	for _, st := range plan.Stops {
		fmt.Printf("Stop [%s] %s %dm %s\n", st.Type, st.StartTime.Format("Jan 2 15:04"), st.DurationMins, st.Note)
	}
}
