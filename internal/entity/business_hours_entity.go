package entity

// HoursSource tags where a BusinessHours value came from, for diagnostics
// when the API fetch fails and the fail-closed default is used instead.
type HoursSource string

const (
	HoursSourceAPI     HoursSource = "api"
	HoursSourceDefault HoursSource = "default"
)

// BusinessDay is one weekday entry in a weekly schedule. OpenTime and
// CloseTime are "HH:MM" strings in the schedule's timezone.
type BusinessDay struct {
	Day         string
	OpenTime    string
	CloseTime   string
	IsOpen      bool
	IsHoliday   bool
	HolidayName string
}

// BusinessHours is a value object describing chat availability.
// When Is24x7 is true the day list is ignored and may be empty.
type BusinessHours struct {
	Is24x7   bool
	Days     []BusinessDay
	Timezone string
	Source   HoursSource
}
