package model

// FMCSA Hours-of-Service limits for property-carrying drivers under the
// 70-hour/8-day rule (Interstate Truck Driver's Guide to HOS, FMCSA-HOS-395).
// All durations in minutes, distances in miles.
const (
	MaxDrivingMinutes      = 660 // 11 h driving per shift
	MaxDutyWindowMinutes   = 840 // 14 h on-duty window per shift
	MaxDrivingBeforeBreak  = 480 // 8 h continuous driving before a break

	MandatoryRestMinutes  = 600  // 10 h off-duty resets the shift
	MandatoryBreakMinutes = 30   // mid-shift break
	CycleRestartMinutes   = 2040 // 34 h restart zeroes the cycle

	MaxCycleMinutes = 4200 // 70 h / 8-day cycle

	FuelStopIntervalMiles   = 1000
	FuelStopDurationMinutes = 30
	PickupDurationMinutes   = 60
	DropoffDurationMinutes  = 60

	AverageSpeedMPH = 55
)
