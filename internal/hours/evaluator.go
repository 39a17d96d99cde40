package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"member-chat-be/internal/entity"
)

// Evaluator decides open/closed over a weekly schedule. It is an explicitly
// constructed instance with no hidden global state; callers inject it and
// pass "now" so tests stay deterministic.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// IsCurrentlyOpen returns true unconditionally for 24x7 schedules. Otherwise
// it locates today's entry (weekday name, case-insensitive) and checks that
// the day is open, not an active holiday, and that now's time-of-day lies in
// [OpenTime, CloseTime), compared as minutes since midnight.
func (e *Evaluator) IsCurrentlyOpen(h *entity.BusinessHours, now time.Time) bool {
	if h == nil {
		return false
	}
	if h.Is24x7 {
		return true
	}

	day, ok := findDay(h.Days, now.Weekday())
	if !ok || !day.IsOpen || day.IsHoliday {
		return false
	}

	open, err := parseClock(day.OpenTime)
	if err != nil {
		return false
	}
	closeAt, err := parseClock(day.CloseTime)
	if err != nil {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	return nowMin >= open && nowMin < closeAt
}

// NextOpeningTime returns nil when already open or 24x7. Otherwise it scans
// at most 7 days forward, starting with later today, and returns the earliest
// still-reachable opening. A schedule with no open day yields nil; callers
// must surface that, not default it away.
func (e *Evaluator) NextOpeningTime(h *entity.BusinessHours, now time.Time) *time.Time {
	if h == nil || h.Is24x7 || e.IsCurrentlyOpen(h, now) {
		return nil
	}

	nowMin := now.Hour()*60 + now.Minute()
	for offset := 0; offset <= 7; offset++ {
		candidate := now.AddDate(0, 0, offset)
		day, ok := findDay(h.Days, candidate.Weekday())
		if !ok || !day.IsOpen || day.IsHoliday {
			continue
		}
		open, err := parseClock(day.OpenTime)
		if err != nil {
			continue
		}
		if offset == 0 && nowMin >= open {
			// Today's opening already passed.
			continue
		}
		t := time.Date(candidate.Year(), candidate.Month(), candidate.Day(),
			open/60, open%60, 0, 0, now.Location())
		return &t
	}
	return nil
}

// AvailabilityMessage is the single source of user-facing open/closed text.
// Callers must not re-derive the boolean themselves.
func (e *Evaluator) AvailabilityMessage(h *entity.BusinessHours, now time.Time) string {
	if e.IsCurrentlyOpen(h, now) {
		return "Chat is available now."
	}
	next := e.NextOpeningTime(h, now)
	if next == nil {
		return "Chat is currently unavailable."
	}
	return fmt.Sprintf("Chat is closed. We reopen %s at %02d:%02d.",
		next.Weekday().String(), next.Hour(), next.Minute())
}

func findDay(days []entity.BusinessDay, weekday time.Weekday) (entity.BusinessDay, bool) {
	name := weekday.String()
	for _, d := range days {
		if strings.EqualFold(d.Day, name) {
			return d, true
		}
	}
	return entity.BusinessDay{}, false
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", v)
	}
	return h*60 + m, nil
}
