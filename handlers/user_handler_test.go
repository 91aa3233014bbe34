package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/sealbox"
)

func newUserTestHandler(t *testing.T, users *fakeUsers) *UserHandler {
	t.Helper()
	box, err := sealbox.New(nil)
	if err != nil {
		t.Fatalf("sealbox: %v", err)
	}
	return NewUserHandler(users, nil, nil, nil, nil, box)
}

func TestUpdateUserSelfLimitedToContactFields(t *testing.T) {
	emp := &models.User{ID: primitive.NewObjectID(), Name: "Dewi", Email: "dewi@example.com", Role: models.RoleEmployee, Salary: 5000}
	other := &models.User{ID: primitive.NewObjectID(), Name: "Eko", Email: "eko@example.com", Role: models.RoleEmployee}
	users := newFakeUsers(emp, other)
	h := newUserTestHandler(t, users)

	app := newTestApp(&models.Claims{UserID: emp.ID, Role: models.RoleEmployee})
	app.Put("/users/:id", h.UpdateUser)

	salary := 90000.0
	status, env := doJSON(t, app, "PUT", "/users/"+emp.ID.Hex(), models.UserUpdatePayload{
		Phone:  "0812345678",
		Name:   "Dewi Lestari",
		Role:   models.RoleManager,
		Salary: &salary,
	})
	if status != 200 {
		t.Fatalf("status = %d (%s), want 200", status, env.Message)
	}
	stored := users.users[emp.ID]
	if stored.Phone != "0812345678" {
		t.Errorf("phone = %q, want updated", stored.Phone)
	}
	if stored.Name != "Dewi" || stored.Role != models.RoleEmployee || stored.Salary != 5000 {
		t.Errorf("HR fields changed by the employee: %s %s %v", stored.Name, stored.Role, stored.Salary)
	}

	status, _ = doJSON(t, app, "PUT", "/users/"+other.ID.Hex(), models.UserUpdatePayload{Phone: "0812345678"})
	if status != 403 {
		t.Fatalf("updating another profile: status = %d, want 403", status)
	}
}

func TestUpdateUserRoleChanges(t *testing.T) {
	tests := []struct {
		name     string
		caller   string
		self     bool
		fromRole string
		toRole   string
		want     int
	}{
		{"hr promotes to manager", models.RoleHR, false, models.RoleEmployee, models.RoleManager, 200},
		{"hr promotes to admin", models.RoleHR, false, models.RoleEmployee, models.RoleAdmin, 403},
		{"hr promotes self to admin", models.RoleHR, true, models.RoleHR, models.RoleAdmin, 403},
		{"hr demotes an admin", models.RoleHR, false, models.RoleAdmin, models.RoleEmployee, 403},
		{"admin promotes to admin", models.RoleAdmin, false, models.RoleHR, models.RoleAdmin, 200},
		{"admin demotes self", models.RoleAdmin, true, models.RoleAdmin, models.RoleEmployee, 403},
		{"unchanged role", models.RoleHR, true, models.RoleHR, models.RoleHR, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &models.User{ID: primitive.NewObjectID(), Email: "caller@example.com", Role: tt.caller}
			target := caller
			users := newFakeUsers(caller)
			if !tt.self {
				target = &models.User{ID: primitive.NewObjectID(), Email: "target@example.com", Role: tt.fromRole}
				users = newFakeUsers(caller, target)
			}
			h := newUserTestHandler(t, users)
			app := newTestApp(&models.Claims{UserID: caller.ID, Role: tt.caller})
			app.Put("/users/:id", h.UpdateUser)

			status, env := doJSON(t, app, "PUT", "/users/"+target.ID.Hex(), models.UserUpdatePayload{Role: tt.toRole})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
			wantRole := tt.fromRole
			if tt.want == 200 {
				wantRole = tt.toRole
			}
			if got := users.users[target.ID].Role; got != wantRole {
				t.Errorf("stored role = %q, want %q", got, wantRole)
			}
		})
	}
}

func TestRegisterAdminNeedsAdmin(t *testing.T) {
	tests := []struct {
		caller string
		want   int
	}{
		{models.RoleHR, 403},
		{models.RoleAdmin, 201},
	}
	for _, tt := range tests {
		t.Run(tt.caller, func(t *testing.T) {
			users := newFakeUsers()
			h := NewAuthHandler(users, &fakeCounters{}, stubTokens{}, &fakeMailer{}, AuthConfig{})
			app := newTestApp(&models.Claims{UserID: primitive.NewObjectID(), Role: tt.caller})
			app.Post("/register", h.Register)

			status, env := doJSON(t, app, "POST", "/register", models.UserRegisterPayload{
				Name:     "New Admin",
				Email:    "boss@example.com",
				Password: "Password1",
				Role:     models.RoleAdmin,
			})
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
		})
	}
}
