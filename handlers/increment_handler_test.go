package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestIncrementDecisions(t *testing.T) {
	hr := &models.User{ID: primitive.NewObjectID(), Role: models.RoleHR}
	approved := &models.User{ID: primitive.NewObjectID(), Name: "Dewi", Email: "dewi@hrms.local", Salary: 50000}
	rejected := &models.User{ID: primitive.NewObjectID(), Name: "Arif", Email: "arif@hrms.local", Salary: 42000}

	raise := &models.SalaryIncrement{
		ID:               primitive.NewObjectID(),
		UserID:           approved.ID,
		Year:             2024,
		PreviousSalary:   50000,
		PerformanceGrade: "A",
		IncrementPercent: 13.2,
		NewSalary:        56600,
		EffectiveDate:    "2025-04-01",
		Status:           models.IncrementProposed,
	}
	declined := &models.SalaryIncrement{
		ID:             primitive.NewObjectID(),
		UserID:         rejected.ID,
		Year:           2024,
		PreviousSalary: 42000,
		NewSalary:      44100,
		Status:         models.IncrementProposed,
	}
	increments := newFakeIncrements(raise, declined)
	users := newFakeUsers(hr, approved, rejected)
	mail := &fakeMailer{}
	h := NewIncrementHandler(increments, nil, nil, nil, users, mail)

	app := newTestApp(&models.Claims{UserID: hr.ID, Role: models.RoleHR})
	app.Put("/increments/:id/approve", h.ApproveIncrement)
	app.Put("/increments/:id/reject", h.RejectIncrement)

	status, env := doJSON(t, app, "PUT", "/increments/"+raise.ID.Hex()+"/approve", nil)
	if status != 200 {
		t.Fatalf("approve status = %d (%s), want 200", status, env.Message)
	}
	if got := users.users[approved.ID].Salary; got != 56600 {
		t.Errorf("salary after approval = %.2f, want 56600", got)
	}
	if inc := increments.byID[raise.ID]; inc.Status != models.IncrementApproved || inc.ApprovedBy == nil || *inc.ApprovedBy != hr.ID {
		t.Errorf("increment = %+v, want approved by HR", inc)
	}
	if len(mail.sent) != 1 || mail.sent[0].category != models.EmailCategoryIncrement || mail.sent[0].to[0] != approved.Email {
		t.Errorf("mails = %+v", mail.sent)
	}

	status, _ = doJSON(t, app, "PUT", "/increments/"+raise.ID.Hex()+"/approve", nil)
	if status != 409 {
		t.Fatalf("second approval status = %d, want 409", status)
	}

	status, env = doJSON(t, app, "PUT", "/increments/"+declined.ID.Hex()+"/reject", models.DecisionPayload{Remarks: "Budget freeze"})
	if status != 200 {
		t.Fatalf("reject status = %d (%s), want 200", status, env.Message)
	}
	if got := users.users[rejected.ID].Salary; got != 42000 {
		t.Errorf("salary after rejection = %.2f, want 42000", got)
	}
	if inc := increments.byID[declined.ID]; inc.Status != models.IncrementRejected || inc.Remarks != "Budget freeze" {
		t.Errorf("increment = %+v, want rejected with remarks", inc)
	}
	if len(mail.sent) != 1 {
		t.Errorf("rejection sent a salary revision mail")
	}
}
