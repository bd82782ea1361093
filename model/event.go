package model

// Status is an ELD duty status code.
type Status string

const (
	OffDuty          Status = "OFF"
	SleeperBerth     Status = "SB" // reserved; the simulator emits all rest as OFF
	Driving          Status = "D"
	OnDutyNotDriving Status = "ON"
)

// Statuses lists all four codes in grid order.
var Statuses = []Status{OffDuty, SleeperBerth, Driving, OnDutyNotDriving}

// Kind classifies what an event is, independent of its human-readable note.
// Stop markers and reports read this directly instead of sniffing note text.
type Kind string

const (
	KindDrive   Kind = "drive"
	KindPickup  Kind = "pickup"
	KindDropoff Kind = "dropoff"
	KindFuel    Kind = "fuel"
	KindBreak   Kind = "break"
	KindRest    Kind = "rest"    // 10-hour off-duty rest
	KindRestart Kind = "restart" // 34-hour cycle restart
)

// TimelineEvent is one duty-status block on the trip timeline. Events are
// contiguous and strictly ordered: each event starts where the previous ended.
type TimelineEvent struct {
	Status       Status    `json:"status"`
	Kind         Kind      `json:"kind"`
	StartTime    Timestamp `json:"start_time"`
	EndTime      Timestamp `json:"end_time"`
	DurationMins int       `json:"duration_mins"`
	Location     string    `json:"location"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Note         string    `json:"note"`
	Day          int       `json:"day"`
}
