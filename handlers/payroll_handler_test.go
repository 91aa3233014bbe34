package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

// presentAllMonth records a present day for every weekday of March 2025.
func presentAllMonth(attendance *fakeAttendance, userID primitive.ObjectID) int {
	days := 0
	for d := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.March; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		date := d.Format(dateLayout)
		attendance.records[attendanceKey(userID, date)] = &models.Attendance{
			ID:     primitive.NewObjectID(),
			UserID: userID,
			Date:   date,
			Status: models.AttendancePresent,
		}
		days++
	}
	return days
}

func TestGeneratePayroll(t *testing.T) {
	freezeClock(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))

	worker := &models.User{ID: primitive.NewObjectID(), EmployeeID: "EMP0001", Email: "worker@hrms.local", Salary: 30000, Status: models.UserStatusActive}
	settled := &models.User{ID: primitive.NewObjectID(), EmployeeID: "EMP0002", Email: "settled@hrms.local", Salary: 30000, Status: models.UserStatusActive}
	unpaid := &models.User{ID: primitive.NewObjectID(), EmployeeID: "EMP0003", Status: models.UserStatusActive}
	joiner := &models.User{ID: primitive.NewObjectID(), EmployeeID: "EMP0004", Salary: 40000, Status: models.UserStatusActive,
		DateOfJoining: time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)}

	attendance := newFakeAttendance()
	workingDays := presentAllMonth(attendance, worker.ID)

	period := &models.PayrollPeriod{
		ID:          primitive.NewObjectID(),
		Month:       "2025-03",
		StartDate:   "2025-03-01",
		EndDate:     "2025-03-31",
		WorkingDays: workingDays,
		Status:      models.PeriodOpen,
	}
	locked := &models.PayrollPeriod{ID: primitive.NewObjectID(), Month: "2025-02", StartDate: "2025-02-01", EndDate: "2025-02-28", Status: models.PeriodLocked}

	payrolls := newFakePayrolls(period, locked)
	payrolls.adjustments = []models.PayrollAdjustment{
		{ID: primitive.NewObjectID(), UserID: worker.ID, PeriodID: period.ID, Type: models.AdjustmentEarning, Label: "Referral bonus", Amount: 1000},
		{ID: primitive.NewObjectID(), UserID: worker.ID, PeriodID: period.ID, Type: models.AdjustmentDeduction, Label: "Canteen", Amount: 500},
	}
	paidRun := models.Payroll{ID: primitive.NewObjectID(), UserID: settled.ID, PeriodID: period.ID, NetPay: 27800, Status: models.PayrollPaid}
	payrolls.payrolls[settled.ID] = &models.PayrollWithUser{Payroll: paidRun}

	mail := &fakeMailer{}
	h := NewPayrollHandler(payrolls, newFakeUsers(worker, settled, unpaid, joiner), attendance, &fakeLeaves{}, nil, &fakeOrgs{}, nil, mail)

	app := newTestApp(&models.Claims{UserID: primitive.NewObjectID(), Role: models.RoleHR})
	app.Post("/payroll/periods/:id/generate", h.GeneratePayroll)

	status, env := doJSON(t, app, "POST", "/payroll/periods/"+locked.ID.Hex()+"/generate", nil)
	if status != 409 {
		t.Fatalf("locked period status = %d (%s), want 409", status, env.Message)
	}

	status, env = doJSON(t, app, "POST", "/payroll/periods/"+period.ID.Hex()+"/generate", nil)
	if status != 200 {
		t.Fatalf("status = %d (%s), want 200", status, env.Message)
	}
	var got GenerateResult
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got.Generated != 1 {
		t.Errorf("generated = %d, want 1", got.Generated)
	}
	if got.Period.Status != models.PeriodProcessed || got.Period.ProcessedAt == nil {
		t.Errorf("period status = %q, want processed", got.Period.Status)
	}
	wantSkipped := map[string]bool{
		"EMP0002: already paid":       true,
		"EMP0003: no salary":          true,
		"EMP0004: joins after period": true,
	}
	if len(got.Skipped) != len(wantSkipped) {
		t.Fatalf("skipped = %v", got.Skipped)
	}
	for _, s := range got.Skipped {
		if !wantSkipped[s] {
			t.Errorf("unexpected skip %q", s)
		}
	}

	run := payrolls.payrolls[worker.ID]
	if run == nil {
		t.Fatal("no payroll written for the worker")
	}
	if run.PaidDays != float64(workingDays) || run.LOPDays != 0 {
		t.Errorf("paid %.1f lop %.1f, want %d and 0", run.PaidDays, run.LOPDays, workingDays)
	}
	if run.Earnings.Adjustments != 1000 || run.Deductions.Adjustments != 500 {
		t.Errorf("adjustments = +%.2f -%.2f, want +1000 -500", run.Earnings.Adjustments, run.Deductions.Adjustments)
	}
	// 30000 + 1000 bonus; 1800 PF + 200 PT + 500 canteen.
	if run.Gross != 31000 || run.TotalDeductions != 2500 || run.NetPay != 28500 {
		t.Errorf("gross %.2f deductions %.2f net %.2f, want 31000 2500 28500", run.Gross, run.TotalDeductions, run.NetPay)
	}
	if kept := payrolls.payrolls[settled.ID]; kept.ID != paidRun.ID || kept.Status != models.PayrollPaid {
		t.Errorf("paid payroll was regenerated")
	}
	if len(mail.sent) != 1 || mail.sent[0].to[0] != worker.Email || mail.sent[0].category != models.EmailCategoryPayslip {
		t.Errorf("payslip mails = %+v", mail.sent)
	}
}

func TestFullAndFinalExitsEmployee(t *testing.T) {
	leaver := &models.User{
		ID:            primitive.NewObjectID(),
		Salary:        30000,
		Status:        models.UserStatusOnNotice,
		LeaveBalance:  6,
		DateOfJoining: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	users := newFakeUsers(leaver)
	h := NewPayrollHandler(newFakePayrolls(), users, nil, nil, nil, &fakeOrgs{}, nil, &fakeMailer{})

	app := newTestApp(&models.Claims{UserID: primitive.NewObjectID(), Role: models.RoleHR})
	app.Post("/payroll/full-and-final", h.FullAndFinal)

	payload := models.FullAndFinalPayload{UserID: leaver.ID.Hex(), LastWorkingDay: "2025-03-15", UnusedLeaves: 6}
	status, env := doJSON(t, app, "POST", "/payroll/full-and-final", payload)
	if status != 200 {
		t.Fatalf("status = %d (%s), want 200", status, env.Message)
	}
	var got models.FullAndFinalSettlement
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode settlement: %v", err)
	}
	if got.YearsOfService != 6 {
		t.Errorf("years of service = %d, want 6", got.YearsOfService)
	}
	if got.PendingSalary != 14516.13 {
		t.Errorf("pending salary = %.2f, want 14516.13", got.PendingSalary)
	}
	if got.Gratuity <= 0 || got.NetPayable <= got.PendingSalary {
		t.Errorf("gratuity %.2f net %.2f", got.Gratuity, got.NetPayable)
	}

	saved := users.users[leaver.ID]
	if saved.Status != models.UserStatusExited {
		t.Errorf("status = %q, want exited", saved.Status)
	}
	if saved.DateOfExit == nil || saved.DateOfExit.Format(dateLayout) != "2025-03-15" {
		t.Errorf("date of exit = %v", saved.DateOfExit)
	}
	if saved.LeaveBalance != 0 {
		t.Errorf("leave balance = %.1f, want 0", saved.LeaveBalance)
	}

	status, _ = doJSON(t, app, "POST", "/payroll/full-and-final", payload)
	if status != 409 {
		t.Fatalf("second settlement status = %d, want 409", status)
	}
}
