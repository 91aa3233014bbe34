package handlers

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

// holidayTimeout caps the provider lookup so a slow provider leaves the rest
// of the request budget to the store.
var holidayTimeout = 2 * time.Second

// holidaysBetween fetches holidays for the range. Provider failures and
// timeouts are logged and yield an empty map.
func holidaysBetween(ctx context.Context, src util.HolidaySource, start, end time.Time) map[string]bool {
	ctx, cancel := context.WithTimeout(ctx, holidayTimeout)
	defer cancel()

	holidays, err := util.HolidayMap(ctx, src, start, end)
	if err != nil {
		log.Printf("holidays: provider unavailable for %s..%s: %v", start.Format(dateLayout), end.Format(dateLayout), err)
		return map[string]bool{}
	}
	return holidays
}

// monthlySummary loads a user's records for the month and summarizes them
// against the organization's working days.
func monthlySummary(ctx context.Context, attendance repository.AttendanceRepository, orgs repository.OrganizationRepository, src util.HolidaySource, user *models.User, month string, start, end time.Time) (models.AttendanceSummary, error) {
	records, err := attendance.FindAttendances(ctx, repository.AttendanceFilter{
		UserID:   &user.ID,
		FromDate: start.Format(dateLayout),
		ToDate:   end.Format(dateLayout),
	})
	if err != nil {
		return models.AttendanceSummary{}, storeError(err, "Attendance")
	}
	settings := orgSettings(ctx, orgs, user)
	working := calc.WorkingDays(start, end, calc.WeekdaysFor(settings.WorkingDaysPerWeek), holidaysBetween(ctx, src, start, end))
	return summarizeAttendance(user.ID, month, records, working), nil
}

// summarizeAttendance counts a month of attendance records.
func summarizeAttendance(userID primitive.ObjectID, month string, records []models.Attendance, workingDays int) models.AttendanceSummary {
	s := models.AttendanceSummary{UserID: userID, Month: month, WorkingDays: workingDays}
	for _, a := range records {
		switch a.Status {
		case models.AttendancePresent:
			s.PresentDays++
		case models.AttendanceLate:
			s.LateDays++
		case models.AttendanceHalfDay:
			s.HalfDays++
		case models.AttendanceAbsent:
			s.AbsentDays++
		case models.AttendanceOnLeave:
			s.LeaveDays++
		case models.AttendanceHoliday:
			s.HolidayDays++
		}
		s.TotalHours += a.TotalHours
		s.OvertimeHours += a.OvertimeHours
	}
	s.TotalHours = calc.Round2(s.TotalHours)
	s.OvertimeHours = calc.Round2(s.OvertimeHours)
	if workingDays > 0 {
		rate := attendedDays(s) / float64(workingDays) * 100
		if rate > 100 {
			rate = 100
		}
		s.AttendanceRate = calc.Round2(rate)
	}
	return s
}

// attendedDays counts late days as present and half days as half.
func attendedDays(s models.AttendanceSummary) float64 {
	return float64(s.PresentDays+s.LateDays) + 0.5*float64(s.HalfDays)
}

// paidLeaveDays counts the working days in [start, end] covered by approved
// paid leave.
func paidLeaveDays(leaves []models.LeaveRequest, start, end time.Time, weekdays map[time.Weekday]bool, holidays map[string]bool) float64 {
	covered := make(map[string]bool)
	for _, l := range leaves {
		if l.Status != models.LeaveApproved || !l.IsPaid() {
			continue
		}
		from, err1 := parseDate(l.StartDate)
		to, err2 := parseDate(l.EndDate)
		if err1 != nil || err2 != nil {
			continue
		}
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			key := d.Format(dateLayout)
			if weekdays[d.Weekday()] && !holidays[key] {
				covered[key] = true
			}
		}
	}
	return float64(len(covered))
}
