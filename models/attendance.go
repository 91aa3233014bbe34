package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half_day"
	AttendanceAbsent  = "absent"
	AttendanceOnLeave = "on_leave"
	AttendanceHoliday = "holiday"

	SourceQR     = "qr"
	SourceKiosk  = "kiosk"
	SourceManual = "manual"
	SourceSystem = "system"
)

type Break struct {
	Start  time.Time  `json:"start" bson:"start"`
	End    *time.Time `json:"end,omitempty" bson:"end,omitempty"`
	Reason string     `json:"reason,omitempty" bson:"reason,omitempty"`
}

type Attendance struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id"`
	Date          string             `json:"date" bson:"date"`
	PunchIn       *time.Time         `json:"punch_in,omitempty" bson:"punch_in,omitempty"`
	PunchOut      *time.Time         `json:"punch_out,omitempty" bson:"punch_out,omitempty"`
	Breaks        []Break            `json:"breaks" bson:"breaks"`
	TotalHours    float64            `json:"total_hours" bson:"total_hours"`
	BreakMinutes  int                `json:"break_minutes" bson:"break_minutes"`
	OvertimeHours float64            `json:"overtime_hours" bson:"overtime_hours"`
	Status        string             `json:"status" bson:"status"`
	Source        string             `json:"source" bson:"source"`
	Note          string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// OpenBreak returns the index of the break that has not ended yet, or -1.
func (a *Attendance) OpenBreak() int {
	for i := range a.Breaks {
		if a.Breaks[i].End == nil {
			return i
		}
	}
	return -1
}

type PunchPayload struct {
	Code   string `json:"code"`
	UserID string `json:"user_id" validate:"omitempty,objectid"`
	Note   string `json:"note" validate:"omitempty,max=255"`
}

type BreakPayload struct {
	Reason string `json:"reason" validate:"omitempty,max=120"`
}

type AttendanceUpdatePayload struct {
	PunchIn  string `json:"punch_in,omitempty" validate:"omitempty,datetime=15:04"`
	PunchOut string `json:"punch_out,omitempty" validate:"omitempty,datetime=15:04"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=present late half_day absent on_leave holiday"`
	Note     string `json:"note,omitempty" validate:"omitempty,max=255"`
}

type MarkAbsentPayload struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type AttendanceWithUser struct {
	Attendance      `bson:",inline"`
	UserName        string `json:"user_name" bson:"user_name"`
	UserEmail       string `json:"user_email" bson:"user_email"`
	UserEmployeeID  string `json:"user_employee_id" bson:"user_employee_id"`
	UserDesignation string `json:"user_designation,omitempty" bson:"user_designation,omitempty"`
}

type AttendanceSummary struct {
	UserID         primitive.ObjectID `json:"user_id"`
	Month          string             `json:"month"`
	WorkingDays    int                `json:"working_days"`
	PresentDays    int                `json:"present_days"`
	LateDays       int                `json:"late_days"`
	HalfDays       int                `json:"half_days"`
	AbsentDays     int                `json:"absent_days"`
	LeaveDays      int                `json:"leave_days"`
	HolidayDays    int                `json:"holiday_days"`
	TotalHours     float64            `json:"total_hours"`
	OvertimeHours  float64            `json:"overtime_hours"`
	AttendanceRate float64            `json:"attendance_rate"`
}

type QRCode struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Code      string               `json:"code" bson:"code"`
	Date      string               `json:"date" bson:"date"`
	ExpiresAt time.Time            `json:"expires_at" bson:"expires_at"`
	UsedBy    []primitive.ObjectID `json:"used_by" bson:"used_by"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}
