package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestPunchInWithQRCode(t *testing.T) {
	freezeClock(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	employee := &models.User{ID: primitive.NewObjectID(), Name: "Dewi", Role: models.RoleEmployee, Status: models.UserStatusActive}
	attendance := newFakeAttendance()
	attendance.qr["daily-token"] = &models.QRCode{
		ID:        primitive.NewObjectID(),
		Code:      "daily-token",
		Date:      "2025-03-10",
		ExpiresAt: time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
	}
	h := NewAttendanceHandler(attendance, newFakeUsers(employee), &fakeOrgs{}, nil, nil, nil)

	app := newTestApp(&models.Claims{UserID: employee.ID, Role: models.RoleEmployee})
	app.Post("/punch-in", h.PunchIn)

	status, env := doJSON(t, app, "POST", "/punch-in", models.PunchPayload{Code: "daily-token"})
	if status != 201 {
		t.Fatalf("status = %d (%s), want 201", status, env.Message)
	}
	var got models.Attendance
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode attendance: %v", err)
	}
	if got.Status != models.AttendancePresent {
		t.Errorf("status = %q, want present", got.Status)
	}
	if got.Source != models.SourceQR {
		t.Errorf("source = %q, want qr", got.Source)
	}
	if len(attendance.qr["daily-token"].UsedBy) != 1 {
		t.Errorf("QR code not marked as used")
	}

	status, _ = doJSON(t, app, "POST", "/punch-in", models.PunchPayload{Code: "daily-token"})
	if status != 409 {
		t.Fatalf("second punch-in status = %d, want 409", status)
	}
}

func TestPunchInLateAfterGrace(t *testing.T) {
	freezeClock(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))

	hr := &models.User{ID: primitive.NewObjectID(), Role: models.RoleHR, Status: models.UserStatusActive}
	employee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	h := NewAttendanceHandler(newFakeAttendance(), newFakeUsers(hr, employee), &fakeOrgs{}, nil, nil, nil)

	app := newTestApp(&models.Claims{UserID: hr.ID, Role: models.RoleHR})
	app.Post("/punch-in", h.PunchIn)

	status, env := doJSON(t, app, "POST", "/punch-in", models.PunchPayload{UserID: employee.ID.Hex()})
	if status != 201 {
		t.Fatalf("status = %d (%s), want 201", status, env.Message)
	}
	var got models.Attendance
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode attendance: %v", err)
	}
	if got.Status != models.AttendanceLate || got.Source != models.SourceManual {
		t.Errorf("got status %q source %q, want late/manual", got.Status, got.Source)
	}
}

func TestPunchInRejectsBadCodes(t *testing.T) {
	freezeClock(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	employee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	exited := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusExited}
	attendance := newFakeAttendance()
	attendance.qr["yesterday"] = &models.QRCode{
		ID:        primitive.NewObjectID(),
		Code:      "yesterday",
		Date:      "2025-03-09",
		ExpiresAt: time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC),
	}
	h := NewAttendanceHandler(attendance, newFakeUsers(employee, exited), &fakeOrgs{}, nil, nil, nil)

	tests := []struct {
		name   string
		user   *models.User
		code   string
		target string
		want   int
	}{
		{"missing code", employee, "", "", 400},
		{"unknown token", employee, "nope", "", 400},
		{"expired token", employee, "yesterday", "", 400},
		{"kiosk code without organization", employee, "123456", "", 400},
		{"punch for someone else", employee, "", exited.ID.Hex(), 403},
		{"inactive employee", exited, "yesterday", "", 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&models.Claims{UserID: tt.user.ID, Role: tt.user.Role})
			app.Post("/punch-in", h.PunchIn)
			status, env := doJSON(t, app, "POST", "/punch-in", models.PunchPayload{Code: tt.code, UserID: tt.target})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
			if env.Success {
				t.Fatalf("success = true on failure")
			}
		})
	}
}

func TestWorkdayWithBreaks(t *testing.T) {
	var clock time.Time
	prev := nowFunc
	nowFunc = func() time.Time { return clock }
	t.Cleanup(func() { nowFunc = prev })

	hr := &models.User{ID: primitive.NewObjectID(), Role: models.RoleHR, Status: models.UserStatusActive}
	attendance := newFakeAttendance()
	h := NewAttendanceHandler(attendance, newFakeUsers(hr), &fakeOrgs{}, nil, nil, nil)

	app := newTestApp(&models.Claims{UserID: hr.ID, Role: hr.Role})
	app.Post("/punch-in", h.PunchIn)
	app.Post("/punch-out", h.PunchOut)
	app.Post("/break/start", h.StartBreak)
	app.Post("/break/end", h.EndBreak)

	steps := []struct {
		hour, minute int
		path         string
		want         int
	}{
		{9, 0, "/break/start", 404},
		{9, 0, "/punch-in", 201},
		{13, 0, "/break/start", 200},
		{13, 5, "/break/start", 409},
		{13, 30, "/break/end", 200},
		{13, 45, "/break/end", 409},
		{18, 30, "/break/start", 200},
		{19, 0, "/punch-out", 200},
		{19, 5, "/punch-out", 409},
		{19, 5, "/break/start", 409},
	}
	for _, s := range steps {
		clock = time.Date(2025, 3, 10, s.hour, s.minute, 0, 0, time.UTC)
		var body interface{}
		if s.path == "/punch-in" || s.path == "/punch-out" {
			body = models.PunchPayload{}
		}
		status, env := doJSON(t, app, "POST", s.path, body)
		if status != s.want {
			t.Fatalf("%02d:%02d %s: status = %d (%s), want %d", s.hour, s.minute, s.path, status, env.Message, s.want)
		}
	}

	got := attendance.records[attendanceKey(hr.ID, "2025-03-10")]
	if len(got.Breaks) != 2 || got.OpenBreak() != -1 {
		t.Fatalf("breaks = %+v, want two closed breaks", got.Breaks)
	}
	if got.BreakMinutes != 60 {
		t.Errorf("break minutes = %d, want 60", got.BreakMinutes)
	}
	if got.TotalHours != 9 || got.OvertimeHours != 1 {
		t.Errorf("hours = %.2f overtime %.2f, want 9 and 1", got.TotalHours, got.OvertimeHours)
	}
	if got.Status != models.AttendancePresent || got.Source != models.SourceManual {
		t.Errorf("status %q source %q, want present/manual", got.Status, got.Source)
	}
}

func TestPunchOutShortDayIsHalfDay(t *testing.T) {
	freezeClock(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC))

	employee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	hr := &models.User{ID: primitive.NewObjectID(), Role: models.RoleHR, Status: models.UserStatusActive}
	attendance := newFakeAttendance()
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	attendance.records[attendanceKey(employee.ID, "2025-03-10")] = &models.Attendance{
		ID:      primitive.NewObjectID(),
		UserID:  employee.ID,
		Date:    "2025-03-10",
		PunchIn: &in,
		Status:  models.AttendancePresent,
	}
	h := NewAttendanceHandler(attendance, newFakeUsers(employee, hr), &fakeOrgs{}, nil, nil, nil)

	app := newTestApp(&models.Claims{UserID: hr.ID, Role: hr.Role})
	app.Post("/punch-out", h.PunchOut)

	status, env := doJSON(t, app, "POST", "/punch-out", models.PunchPayload{UserID: employee.ID.Hex()})
	if status != 200 {
		t.Fatalf("status = %d (%s), want 200", status, env.Message)
	}
	got := attendance.records[attendanceKey(employee.ID, "2025-03-10")]
	if got.TotalHours != 6 || got.OvertimeHours != 0 || got.Status != models.AttendanceHalfDay {
		t.Errorf("hours %.2f overtime %.2f status %q, want 6, 0, half_day", got.TotalHours, got.OvertimeHours, got.Status)
	}
}

func TestMarkAbsent(t *testing.T) {
	freezeClock(t, time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC))

	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, Status: models.UserStatusActive}
	onLeave := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	present := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	missing := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	joiner := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive,
		DateOfJoining: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}
	exited := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusExited}

	leaves := &fakeLeaves{existing: []models.LeaveRequest{{
		ID:        primitive.NewObjectID(),
		UserID:    onLeave.ID,
		LeaveType: models.LeaveSick,
		StartDate: "2025-03-11",
		EndDate:   "2025-03-13",
		Status:    models.LeaveApproved,
	}}}
	attendance := newFakeAttendance()
	in := time.Date(2025, 3, 12, 9, 10, 0, 0, time.UTC)
	attendance.records[attendanceKey(present.ID, "2025-03-12")] = &models.Attendance{
		ID:      primitive.NewObjectID(),
		UserID:  present.ID,
		Date:    "2025-03-12",
		PunchIn: &in,
		Status:  models.AttendancePresent,
	}
	schedules := &fakeSchedules{rules: []models.WorkSchedule{{
		ID:             primitive.NewObjectID(),
		Date:           "2025-03-03",
		StartTime:      "09:00",
		EndTime:        "17:00",
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR",
	}}}
	users := newFakeUsers(admin, onLeave, present, missing, joiner, exited)
	h := NewAttendanceHandler(attendance, users, &fakeOrgs{}, leaves, schedules, nil)

	app := newTestApp(&models.Claims{UserID: admin.ID, Role: models.RoleAdmin})
	app.Post("/mark-absent", h.MarkAbsent)

	tests := []struct {
		name      string
		date      string
		want      int
		scheduled bool
		marked    int
	}{
		{"future date", "2025-03-18", 400, false, 0},
		{"weekend", "2025-03-15", 200, false, 0},
		{"working day", "2025-03-12", 200, true, 1},
		{"same day again", "2025-03-12", 200, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, "POST", "/mark-absent", models.MarkAbsentPayload{Date: tt.date})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
			if status != 200 {
				return
			}
			var got MarkAbsentResult
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if got.Scheduled != tt.scheduled || got.Marked != tt.marked {
				t.Errorf("scheduled %v marked %d, want %v and %d", got.Scheduled, got.Marked, tt.scheduled, tt.marked)
			}
		})
	}

	rec, ok := attendance.records[attendanceKey(missing.ID, "2025-03-12")]
	if !ok || rec.Status != models.AttendanceAbsent || rec.Source != models.SourceSystem {
		t.Fatalf("missing employee record = %+v", rec)
	}
	if got := attendance.records[attendanceKey(present.ID, "2025-03-12")]; got.Status != models.AttendancePresent {
		t.Errorf("existing record overwritten: %q", got.Status)
	}
	for _, u := range []*models.User{admin, onLeave, joiner, exited} {
		if _, ok := attendance.records[attendanceKey(u.ID, "2025-03-12")]; ok {
			t.Errorf("user %s (%s) marked absent", u.ID.Hex(), u.Role)
		}
	}
}
