package calc

import (
	"sort"
	"time"

	"hrms-backend/models"
)

const maxShift = 24 * time.Hour

type HoursResult struct {
	TotalHours    float64 `json:"total_hours"`
	BreakMinutes  int     `json:"break_minutes"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type interval struct {
	start, end time.Time
}

// CalculateHours returns worked hours between punch-in and punch-out minus breaks.
// Breaks are clipped to the shift, an unfinished break runs until punch-out and
// overlapping breaks are only counted once.
func CalculateHours(in, out time.Time, breaks []models.Break, standardHours float64) HoursResult {
	if in.IsZero() || out.IsZero() || !out.After(in) {
		return HoursResult{}
	}
	if out.Sub(in) > maxShift {
		out = in.Add(maxShift)
	}
	worked := out.Sub(in)

	spans := make([]interval, 0, len(breaks))
	for _, b := range breaks {
		start, end := b.Start, out
		if b.End != nil && !b.End.IsZero() {
			end = *b.End
		}
		if start.Before(in) {
			start = in
		}
		if end.After(out) {
			end = out
		}
		if end.After(start) {
			spans = append(spans, interval{start, end})
		}
	}

	onBreak := mergedDuration(spans)
	net := worked - onBreak
	if net < 0 {
		net = 0
	}

	total := Round2(net.Hours())
	res := HoursResult{
		TotalHours:   total,
		BreakMinutes: int(onBreak / time.Minute),
	}
	if standardHours > 0 && total > standardHours {
		res.OvertimeHours = Round2(total - standardHours)
	}
	return res
}

func mergedDuration(spans []interval) time.Duration {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	var total time.Duration
	cur := spans[0]
	for _, s := range spans[1:] {
		if !s.start.After(cur.end) {
			if s.end.After(cur.end) {
				cur.end = s.end
			}
			continue
		}
		total += cur.end.Sub(cur.start)
		cur = s
	}
	return total + cur.end.Sub(cur.start)
}

// IsLate reports whether punchIn falls after the shift start plus grace period,
// evaluated on the punch-in's own calendar day and location.
func IsLate(punchIn time.Time, s models.OrgSettings) bool {
	start, err := time.Parse("15:04", s.ShiftStart)
	if err != nil {
		return false
	}
	deadline := time.Date(punchIn.Year(), punchIn.Month(), punchIn.Day(),
		start.Hour(), start.Minute(), 0, 0, punchIn.Location()).
		Add(time.Duration(s.GraceMinutes) * time.Minute)
	return punchIn.After(deadline)
}

// ResolveAttendanceStatus classifies a closed attendance day.
func ResolveAttendanceStatus(punchIn time.Time, totalHours float64, s models.OrgSettings) string {
	switch {
	case totalHours < s.HalfDayHours:
		return models.AttendanceAbsent
	case totalHours < s.StandardHours:
		return models.AttendanceHalfDay
	case IsLate(punchIn, s):
		return models.AttendanceLate
	default:
		return models.AttendancePresent
	}
}

// WeekdaysFor returns the working weekdays for an n-day week starting Monday.
func WeekdaysFor(perWeek int) map[time.Weekday]bool {
	if perWeek <= 0 || perWeek > 7 {
		perWeek = 5
	}
	days := make(map[time.Weekday]bool, perWeek)
	for i := 0; i < perWeek; i++ {
		days[time.Weekday((int(time.Monday)+i)%7)] = true
	}
	return days
}

// WorkingDays counts the days in [start, end] that fall on a working weekday
// and are not holidays. Holidays are keyed by "2006-01-02".
func WorkingDays(start, end time.Time, weekdays map[time.Weekday]bool, holidays map[string]bool) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if weekdays[d.Weekday()] && !holidays[d.Format("2006-01-02")] {
			count++
		}
	}
	return count
}
