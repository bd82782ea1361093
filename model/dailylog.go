package model

// GridSegment is one horizontal run on the 24-hour status grid of a log
// sheet. Hours are fractions in [0, 24]; segments partition the day.
type GridSegment struct {
	Status       Status  `json:"status"`
	StartHour    float64 `json:"start_hour"`
	EndHour      float64 `json:"end_hour"`
	DurationMins int     `json:"duration_mins"`
}

// Remark is a stop annotation on a log sheet (non-driving events only).
type Remark struct {
	Time     string `json:"time"` // HH:MM
	Location string `json:"location"`
	Note     string `json:"note"`
}

// DailyLog is one calendar day of the driver's record of duty status:
// the filled grid, hour totals per status, and remarks.
type DailyLog struct {
	Date     string             `json:"date"` // YYYY-MM-DD
	Segments []GridSegment      `json:"segments"`
	Totals   map[Status]float64 `json:"totals"`
	Remarks  []Remark           `json:"remarks"`
}
