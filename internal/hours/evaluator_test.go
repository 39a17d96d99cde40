package hours

import (
	"testing"
	"time"

	"member-chat-be/internal/entity"
)

func weekdaySchedule() *entity.BusinessHours {
	return &entity.BusinessHours{
		Is24x7: false,
		Days: []entity.BusinessDay{
			{Day: "Monday", OpenTime: "09:00", CloseTime: "17:00", IsOpen: true},
		},
		Source: entity.HoursSourceAPI,
	}
}

// 2026-03-02 is a Monday.
func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestIsCurrentlyOpen(t *testing.T) {
	ev := NewEvaluator()

	tests := []struct {
		name  string
		hours *entity.BusinessHours
		now   time.Time
		want  bool
	}{
		{
			name:  "open during monday hours",
			hours: weekdaySchedule(),
			now:   mondayAt(10, 0),
			want:  true,
		},
		{
			name:  "closed after monday hours",
			hours: weekdaySchedule(),
			now:   mondayAt(18, 0),
			want:  false,
		},
		{
			name:  "open boundary is inclusive",
			hours: weekdaySchedule(),
			now:   mondayAt(9, 0),
			want:  true,
		},
		{
			name:  "close boundary is exclusive",
			hours: weekdaySchedule(),
			now:   mondayAt(17, 0),
			want:  false,
		},
		{
			name:  "day absent from schedule",
			hours: weekdaySchedule(),
			now:   mondayAt(10, 0).AddDate(0, 0, 1), // Tuesday
			want:  false,
		},
		{
			name: "day marked closed",
			hours: &entity.BusinessHours{Days: []entity.BusinessDay{
				{Day: "Monday", OpenTime: "09:00", CloseTime: "17:00", IsOpen: false},
			}},
			now:  mondayAt(10, 0),
			want: false,
		},
		{
			name: "active holiday",
			hours: &entity.BusinessHours{Days: []entity.BusinessDay{
				{Day: "Monday", OpenTime: "09:00", CloseTime: "17:00", IsOpen: true, IsHoliday: true, HolidayName: "Company Day"},
			}},
			now:  mondayAt(10, 0),
			want: false,
		},
		{
			name: "weekday name matched case-insensitively",
			hours: &entity.BusinessHours{Days: []entity.BusinessDay{
				{Day: "monday", OpenTime: "09:00", CloseTime: "17:00", IsOpen: true},
			}},
			now:  mondayAt(10, 0),
			want: true,
		},
		{
			name: "malformed open time",
			hours: &entity.BusinessHours{Days: []entity.BusinessDay{
				{Day: "Monday", OpenTime: "nine", CloseTime: "17:00", IsOpen: true},
			}},
			now:  mondayAt(10, 0),
			want: false,
		},
		{
			name:  "nil hours fail closed",
			hours: nil,
			now:   mondayAt(10, 0),
			want:  false,
		},
		{
			name:  "fail-closed default schedule",
			hours: DefaultHours(),
			now:   mondayAt(10, 0),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ev.IsCurrentlyOpen(tt.hours, tt.now); got != tt.want {
				t.Errorf("IsCurrentlyOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCurrentlyOpen24x7(t *testing.T) {
	ev := NewEvaluator()
	hours := &entity.BusinessHours{Is24x7: true}

	// 24x7 is open regardless of day or time, even with an empty day list.
	moments := []time.Time{
		mondayAt(0, 0),
		mondayAt(3, 33),
		mondayAt(23, 59),
		mondayAt(12, 0).AddDate(0, 0, 5), // Saturday
	}
	for _, now := range moments {
		if !ev.IsCurrentlyOpen(hours, now) {
			t.Errorf("IsCurrentlyOpen(24x7, %v) = false, want true", now)
		}
	}
}

func TestNextOpeningTime(t *testing.T) {
	ev := NewEvaluator()

	t.Run("nil while open", func(t *testing.T) {
		if got := ev.NextOpeningTime(weekdaySchedule(), mondayAt(10, 0)); got != nil {
			t.Errorf("NextOpeningTime while open = %v, want nil", got)
		}
	})

	t.Run("nil for 24x7", func(t *testing.T) {
		if got := ev.NextOpeningTime(&entity.BusinessHours{Is24x7: true}, mondayAt(10, 0)); got != nil {
			t.Errorf("NextOpeningTime for 24x7 = %v, want nil", got)
		}
	})

	t.Run("later today", func(t *testing.T) {
		got := ev.NextOpeningTime(weekdaySchedule(), mondayAt(7, 30))
		want := mondayAt(9, 0)
		if got == nil || !got.Equal(want) {
			t.Errorf("NextOpeningTime = %v, want %v", got, want)
		}
	})

	t.Run("wraps to next week", func(t *testing.T) {
		got := ev.NextOpeningTime(weekdaySchedule(), mondayAt(18, 0))
		want := mondayAt(9, 0).AddDate(0, 0, 7)
		if got == nil || !got.Equal(want) {
			t.Errorf("NextOpeningTime = %v, want %v", got, want)
		}
	})

	t.Run("no open day yields nil", func(t *testing.T) {
		hours := &entity.BusinessHours{Days: []entity.BusinessDay{
			{Day: "Monday", OpenTime: "09:00", CloseTime: "17:00", IsOpen: false},
		}}
		if got := ev.NextOpeningTime(hours, mondayAt(18, 0)); got != nil {
			t.Errorf("NextOpeningTime with no open day = %v, want nil", got)
		}
	})
}

func TestAvailabilityMessage(t *testing.T) {
	ev := NewEvaluator()

	if got := ev.AvailabilityMessage(weekdaySchedule(), mondayAt(10, 0)); got != "Chat is available now." {
		t.Errorf("AvailabilityMessage open = %q", got)
	}

	closed := ev.AvailabilityMessage(weekdaySchedule(), mondayAt(18, 0))
	if closed == "" || closed == "Chat is available now." {
		t.Errorf("AvailabilityMessage closed = %q", closed)
	}

	if got := ev.AvailabilityMessage(DefaultHours(), mondayAt(10, 0)); got != "Chat is currently unavailable." {
		t.Errorf("AvailabilityMessage no open day = %q", got)
	}
}
