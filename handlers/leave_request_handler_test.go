package handlers

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestCreateLeaveRequest(t *testing.T) {
	employee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, Status: models.UserStatusActive, LeaveBalance: 10}
	leaves := &fakeLeaves{existing: []models.LeaveRequest{{
		ID:        primitive.NewObjectID(),
		UserID:    employee.ID,
		LeaveType: models.LeaveCasual,
		StartDate: "2025-03-12",
		EndDate:   "2025-03-13",
		Status:    models.LeaveApproved,
	}}}
	h := NewLeaveRequestHandler(leaves, newFakeAttendance(), newFakeUsers(employee), &fakeOrgs{}, nil, &fakeMailer{})

	app := newTestApp(&models.Claims{UserID: employee.ID, Role: models.RoleEmployee})
	app.Post("/leave-requests", h.CreateLeaveRequest)

	const reason = "Family function out of town"
	tests := []struct {
		name      string
		leaveType string
		start     string
		end       string
		want      int
	}{
		{"overlaps approved leave", models.LeaveCasual, "2025-03-13", "2025-03-14", 409},
		{"weekend only", models.LeaveCasual, "2025-03-15", "2025-03-16", 400},
		{"end before start", models.LeaveCasual, "2025-03-18", "2025-03-17", 400},
		{"exceeds balance", models.LeaveEarned, "2025-03-17", "2025-03-31", 400},
		{"unpaid ignores balance", models.LeaveUnpaid, "2025-04-01", "2025-04-30", 201},
		{"valid request", models.LeaveSick, "2025-03-17", "2025-03-18", 201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, "POST", "/leave-requests", models.LeaveRequestCreatePayload{
				LeaveType: tt.leaveType,
				StartDate: tt.start,
				EndDate:   tt.end,
				Reason:    reason,
			})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
		})
	}

	last := leaves.created[len(leaves.created)-1]
	if last.Days != 2 || last.Status != models.LeavePending {
		t.Errorf("created request = %d days %q, want 2 days pending", last.Days, last.Status)
	}
}

func TestCreateLeaveRequestValidation(t *testing.T) {
	employee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, LeaveBalance: 10}
	h := NewLeaveRequestHandler(&fakeLeaves{}, newFakeAttendance(), newFakeUsers(employee), &fakeOrgs{}, nil, &fakeMailer{})

	app := newTestApp(&models.Claims{UserID: employee.ID, Role: models.RoleEmployee})
	app.Post("/leave-requests", h.CreateLeaveRequest)

	status, env := doJSON(t, app, "POST", "/leave-requests", map[string]string{
		"leave_type": "vacation",
		"start_date": "2025-03-17",
		"end_date":   "2025-03-18",
		"reason":     "short",
	})
	if status != 400 {
		t.Fatalf("status = %d, want 400", status)
	}
	if env.Message != "Validation failed" {
		t.Errorf("message = %q", env.Message)
	}
}

// ctxLeaves fails like the store does once the request deadline has passed.
type ctxLeaves struct{ *fakeLeaves }

func (f ctxLeaves) FindOverlapping(ctx context.Context, userID *primitive.ObjectID, from, to string, statuses ...string) ([]models.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.fakeLeaves.FindOverlapping(ctx, userID, from, to, statuses...)
}

func TestCreateLeaveRequestWithStalledHolidayProvider(t *testing.T) {
	shortHolidayTimeout(t)
	employee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee, LeaveBalance: 10}
	leaves := ctxLeaves{&fakeLeaves{}}
	h := NewLeaveRequestHandler(leaves, newFakeAttendance(), newFakeUsers(employee), &fakeOrgs{}, stalledHolidays{}, &fakeMailer{})

	app := newTestApp(&models.Claims{UserID: employee.ID, Role: models.RoleEmployee})
	app.Post("/leave-requests", h.CreateLeaveRequest)

	status, env := doJSON(t, app, "POST", "/leave-requests", models.LeaveRequestCreatePayload{
		LeaveType: models.LeaveSick,
		StartDate: "2025-03-17",
		EndDate:   "2025-03-18",
		Reason:    "Fever and doctor visit",
	})
	if status != 201 {
		t.Fatalf("status = %d (%s), want 201", status, env.Message)
	}
	if len(leaves.created) != 1 || leaves.created[0].Days != 2 {
		t.Errorf("created = %+v", leaves.created)
	}
}

func TestApproveLeaveRequest(t *testing.T) {
	hr := &models.User{ID: primitive.NewObjectID(), Role: models.RoleHR, Status: models.UserStatusActive}
	employee := &models.User{ID: primitive.NewObjectID(), Email: "dewi@hrms.local", Role: models.RoleEmployee, Status: models.UserStatusActive, LeaveBalance: 10}
	request := models.LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    employee.ID,
		LeaveType: models.LeaveCasual,
		StartDate: "2025-03-13",
		EndDate:   "2025-03-17",
		Days:      3,
		Status:    models.LeavePending,
	}
	own := models.LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    hr.ID,
		LeaveType: models.LeaveCasual,
		StartDate: "2025-03-20",
		EndDate:   "2025-03-20",
		Days:      1,
		Status:    models.LeavePending,
	}
	leaves := &fakeLeaves{existing: []models.LeaveRequest{request, own}}

	attendance := newFakeAttendance()
	attendance.records[attendanceKey(employee.ID, "2025-03-14")] = &models.Attendance{
		ID:     primitive.NewObjectID(),
		UserID: employee.ID,
		Date:   "2025-03-14",
		Status: models.AttendancePresent,
	}
	users := newFakeUsers(hr, employee)
	mail := &fakeMailer{}
	h := NewLeaveRequestHandler(leaves, attendance, users, &fakeOrgs{}, nil, mail)

	app := newTestApp(&models.Claims{UserID: hr.ID, Role: models.RoleHR})
	app.Put("/leave-requests/:id/status", h.UpdateLeaveRequestStatus)

	approve := models.LeaveRequestUpdatePayload{Status: models.LeaveApproved, Note: "Enjoy"}
	status, env := doJSON(t, app, "PUT", "/leave-requests/"+own.ID.Hex()+"/status", approve)
	if status != 403 {
		t.Fatalf("own request status = %d (%s), want 403", status, env.Message)
	}

	status, env = doJSON(t, app, "PUT", "/leave-requests/"+request.ID.Hex()+"/status", approve)
	if status != 200 {
		t.Fatalf("status = %d (%s), want 200", status, env.Message)
	}

	want := map[string]string{
		"2025-03-13": models.AttendanceOnLeave,
		"2025-03-14": models.AttendancePresent,
		"2025-03-17": models.AttendanceOnLeave,
	}
	for date, wantStatus := range want {
		rec, ok := attendance.records[attendanceKey(employee.ID, date)]
		if !ok {
			t.Errorf("%s: no attendance record", date)
			continue
		}
		if rec.Status != wantStatus {
			t.Errorf("%s: status = %q, want %q", date, rec.Status, wantStatus)
		}
	}
	for _, weekend := range []string{"2025-03-15", "2025-03-16"} {
		if _, ok := attendance.records[attendanceKey(employee.ID, weekend)]; ok {
			t.Errorf("%s: weekend marked on leave", weekend)
		}
	}

	if got := users.users[employee.ID].LeaveBalance; got != 7 {
		t.Errorf("leave balance = %.1f, want 7", got)
	}
	if leaves.existing[0].Status != models.LeaveApproved {
		t.Errorf("request status = %q, want approved", leaves.existing[0].Status)
	}
	if len(mail.sent) != 1 || mail.sent[0].category != models.EmailCategoryLeave {
		t.Errorf("mails = %+v", mail.sent)
	}

	status, _ = doJSON(t, app, "PUT", "/leave-requests/"+request.ID.Hex()+"/status", approve)
	if status != 409 {
		t.Fatalf("second decision status = %d, want 409", status)
	}
}
