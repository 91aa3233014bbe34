package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/password"
)

type stubTokens struct{}

func (stubTokens) GenerateToken(user *models.User) (string, time.Time, error) {
	return "token-" + user.EmployeeID, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), nil
}

func TestLogin(t *testing.T) {
	hashed, err := password.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	active := &models.User{ID: primitive.NewObjectID(), EmployeeID: "EMP0007", Email: "sari@example.com", Password: hashed, Role: models.RoleManager, Status: models.UserStatusActive}
	exited := &models.User{ID: primitive.NewObjectID(), EmployeeID: "EMP0008", Email: "old@example.com", Password: hashed, Role: models.RoleEmployee, Status: models.UserStatusExited}

	h := NewAuthHandler(newFakeUsers(active, exited), &fakeCounters{}, stubTokens{}, &fakeMailer{}, AuthConfig{})
	app := newTestApp(nil)
	app.Post("/login", h.Login)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"valid credentials", "Sari@Example.com", "Secret123", 200},
		{"wrong password", "sari@example.com", "Secret124", 401},
		{"unknown email", "nobody@example.com", "Secret123", 401},
		{"exited employee", "old@example.com", "Secret123", 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, "POST", "/login", models.UserLoginPayload{Email: tt.email, Password: tt.password})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
			if status != 200 {
				return
			}
			var data models.LoginData
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("decode login data: %v", err)
			}
			if data.Token != "token-EMP0007" || data.Role != models.RoleManager || data.ExpiresAt != "2025-01-02T00:00:00Z" {
				t.Errorf("login data = %+v", data)
			}
		})
	}
}
