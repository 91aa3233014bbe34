package calc

import (
	"testing"
	"time"

	"hrms-backend/models"
)

func at(day int, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return time.Date(2024, time.June, day, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestCalculateHours(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		breaks   []models.Break
		total    float64
		breakMin int
		overtime float64
	}{
		{
			name:     "lunch break",
			in:       at(3, "09:00"),
			out:      at(3, "18:00"),
			breaks:   []models.Break{{Start: at(3, "13:00"), End: ptr(at(3, "13:30"))}},
			total:    8.5,
			breakMin: 30,
			overtime: 0.5,
		},
		{
			name:  "out before in",
			in:    at(3, "18:00"),
			out:   at(3, "09:00"),
			total: 0,
		},
		{
			name:     "open break runs to punch out",
			in:       at(3, "09:00"),
			out:      at(3, "18:00"),
			breaks:   []models.Break{{Start: at(3, "17:00")}},
			total:    8,
			breakMin: 60,
		},
		{
			name: "overlapping breaks counted once",
			in:   at(3, "09:00"),
			out:  at(3, "18:00"),
			breaks: []models.Break{
				{Start: at(3, "12:00"), End: ptr(at(3, "13:00"))},
				{Start: at(3, "12:30"), End: ptr(at(3, "13:30"))},
			},
			total:    7.5,
			breakMin: 90,
		},
		{
			name:     "break clipped to shift",
			in:       at(3, "09:00"),
			out:      at(3, "17:00"),
			breaks:   []models.Break{{Start: at(3, "08:00"), End: ptr(at(3, "09:30"))}},
			total:    7.5,
			breakMin: 30,
		},
		{
			name:     "shift clamped to a day",
			in:       at(3, "09:00"),
			out:      at(4, "12:00"),
			total:    24,
			overtime: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHours(tt.in, tt.out, tt.breaks, 8)
			if got.TotalHours != tt.total || got.BreakMinutes != tt.breakMin || got.OvertimeHours != tt.overtime {
				t.Fatalf("got %+v, want total=%v break=%v overtime=%v", got, tt.total, tt.breakMin, tt.overtime)
			}
		})
	}
}

func TestResolveAttendanceStatus(t *testing.T) {
	settings := models.DefaultOrgSettings()
	tests := []struct {
		punchIn string
		hours   float64
		want    string
	}{
		{"09:40", 8.5, models.AttendancePresent},
		{"09:45", 8, models.AttendancePresent},
		{"09:50", 8, models.AttendanceLate},
		{"09:50", 5, models.AttendanceHalfDay},
		{"09:00", 3, models.AttendanceAbsent},
	}
	for _, tt := range tests {
		if got := ResolveAttendanceStatus(at(3, tt.punchIn), tt.hours, settings); got != tt.want {
			t.Fatalf("punch %s hours %v: got %s, want %s", tt.punchIn, tt.hours, got, tt.want)
		}
	}
}

func TestWorkingDays(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	if got := WorkingDays(start, end, WeekdaysFor(5), nil); got != 20 {
		t.Fatalf("expected 20 weekdays, got %d", got)
	}
	if got := WorkingDays(start, end, WeekdaysFor(5), map[string]bool{"2024-06-17": true}); got != 19 {
		t.Fatalf("expected 19 days with a holiday, got %d", got)
	}
	if got := WorkingDays(start, end, WeekdaysFor(6), nil); got != 25 {
		t.Fatalf("expected 25 days for a six-day week, got %d", got)
	}
}
