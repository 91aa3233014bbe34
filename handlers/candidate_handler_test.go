package handlers

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/resettoken"
)

var testAuthConfig = AuthConfig{
	ResetSecret: "test-reset-secret",
	ResetTTL:    time.Hour,
	FrontendURL: "http://localhost:5173/",
}

func candidateApp(h *CandidateHandler) *fiber.App {
	hr := &models.Claims{UserID: primitive.NewObjectID(), Role: models.RoleHR}
	app := newTestApp(hr)
	app.Post("/candidates", h.CreateCandidate)
	app.Put("/candidates/:id/status", h.UpdateStatus)
	app.Post("/candidates/:id/interviews", h.AddInterview)
	app.Post("/candidates/:id/hire", h.Hire)
	return app
}

func TestCreateCandidateAssignsReference(t *testing.T) {
	candidates := newFakeCandidates()
	h := NewCandidateHandler(candidates, newFakeUsers(), &fakeCounters{}, &fakeMailer{}, testAuthConfig)
	app := candidateApp(h)

	for _, want := range []string{"CAN00001", "CAN00002"} {
		status, env := doJSON(t, app, "POST", "/candidates", models.CandidatePayload{
			Name:     "Rina Kusuma",
			Email:    "Rina@Example.com",
			Position: "Backend Engineer",
		})
		if status != 201 {
			t.Fatalf("status = %d (%s), want 201", status, env.Message)
		}
		var got models.Candidate
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode candidate: %v", err)
		}
		if got.Reference != want || got.Status != models.CandidateApplied || got.Email != "rina@example.com" {
			t.Errorf("got %s %s %s, want %s applied rina@example.com", got.Reference, got.Status, got.Email, want)
		}
	}
}

func TestCandidateStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"forward one step", models.CandidateApplied, models.CandidateScreening, 200},
		{"skip a stage", models.CandidateApplied, models.CandidateOffered, 409},
		{"backwards", models.CandidateInterview, models.CandidateScreening, 409},
		{"reject open candidate", models.CandidateInterview, models.CandidateRejected, 200},
		{"reopen rejected", models.CandidateRejected, models.CandidateScreening, 409},
		{"hire through status", models.CandidateOffered, models.CandidateHired, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Candidate{Name: "Rina", Email: "rina@example.com", Status: tt.from}
			candidates := newFakeCandidates(c)
			h := NewCandidateHandler(candidates, newFakeUsers(), &fakeCounters{}, &fakeMailer{}, testAuthConfig)
			app := candidateApp(h)

			status, env := doJSON(t, app, "PUT", "/candidates/"+c.ID.Hex()+"/status", models.CandidateStatusPayload{Status: tt.to})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
			wantStatus := tt.from
			if tt.want == 200 {
				wantStatus = tt.to
			}
			if got := candidates.byID[c.ID].Status; got != wantStatus {
				t.Errorf("stored status = %q, want %q", got, wantStatus)
			}
		})
	}
}

func TestAddInterviewNumbersRounds(t *testing.T) {
	c := &models.Candidate{Name: "Rina", Email: "rina@example.com", Status: models.CandidateInterview}
	candidates := newFakeCandidates(c)
	h := NewCandidateHandler(candidates, newFakeUsers(), &fakeCounters{}, &fakeMailer{}, testAuthConfig)
	app := candidateApp(h)

	for i := 0; i < 2; i++ {
		status, env := doJSON(t, app, "POST", "/candidates/"+c.ID.Hex()+"/interviews", models.InterviewPayload{
			ScheduledAt: "2025-03-10T14:30",
			Interviewer: "Budi",
		})
		if status != 201 {
			t.Fatalf("status = %d (%s), want 201", status, env.Message)
		}
	}
	rounds := candidates.byID[c.ID].Interviews
	if len(rounds) != 2 || rounds[0].Round != 1 || rounds[1].Round != 2 {
		t.Fatalf("interviews = %+v, want rounds 1 and 2", rounds)
	}
	if rounds[0].ScheduledAt.Hour() != 14 || rounds[0].ScheduledAt.Minute() != 30 {
		t.Errorf("scheduled_at = %v", rounds[0].ScheduledAt)
	}
}

func TestHireCandidate(t *testing.T) {
	offered := &models.Candidate{Name: "Rina Kusuma", Email: "rina@example.com", Position: "Backend Engineer", Status: models.CandidateOffered}
	screening := &models.Candidate{Name: "Agus", Email: "agus@example.com", Status: models.CandidateScreening}
	candidates := newFakeCandidates(offered, screening)
	users := newFakeUsers()
	mail := &fakeMailer{}
	h := NewCandidateHandler(candidates, users, &fakeCounters{}, mail, testAuthConfig)
	app := candidateApp(h)

	payload := models.HirePayload{Designation: "Engineer", DateOfJoining: "2025-04-01", Salary: 12000000}

	status, _ := doJSON(t, app, "POST", "/candidates/"+screening.ID.Hex()+"/hire", payload)
	if status != 409 {
		t.Fatalf("hiring a screening candidate: status = %d, want 409", status)
	}

	status, env := doJSON(t, app, "POST", "/candidates/"+offered.ID.Hex()+"/hire", payload)
	if status != 201 {
		t.Fatalf("status = %d (%s), want 201", status, env.Message)
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.EmployeeID != "EMP0001" || user.Role != models.RoleEmployee || !user.IsFirstLogin {
		t.Errorf("user = %s %s first_login=%v", user.EmployeeID, user.Role, user.IsFirstLogin)
	}

	stored := candidates.byID[offered.ID]
	if stored.Status != models.CandidateHired || stored.HiredUserID == nil || *stored.HiredUserID != user.ID {
		t.Errorf("candidate = %s hired_user_id=%v", stored.Status, stored.HiredUserID)
	}
	if len(mail.sent) != 1 || mail.sent[0].category != models.EmailCategoryHiring || mail.sent[0].to[0] != "rina@example.com" {
		t.Fatalf("mail = %+v", mail.sent)
	}
	body := mail.sent[0].body
	if !strings.Contains(body, "EMP0001") {
		t.Errorf("welcome mail does not mention the employee ID")
	}
	if strings.Contains(body, "password Hr") {
		t.Errorf("welcome mail carries a plaintext password: %q", body)
	}
	const prefix = "http://localhost:5173/reset-password?token="
	i := strings.Index(body, prefix)
	if i < 0 {
		t.Fatalf("welcome mail has no set-password link: %q", body)
	}
	token, err := url.QueryUnescape(strings.Fields(body[i+len(prefix):])[0])
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	claims, err := resettoken.ParseToken(testAuthConfig.ResetSecret, token)
	if err != nil {
		t.Fatalf("parse set-password token: %v", err)
	}
	if claims.UserID != user.ID.Hex() || claims.PasswordFP != resettoken.Fingerprint(users.users[user.ID].Password) {
		t.Errorf("token claims = %+v, want the new user", claims)
	}

	status, _ = doJSON(t, app, "POST", "/candidates/"+offered.ID.Hex()+"/hire", payload)
	if status != 409 {
		t.Fatalf("hiring twice: status = %d, want 409", status)
	}
}
