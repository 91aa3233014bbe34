package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestTaskResponseCompletesAndRates(t *testing.T) {
	freezeClock(t, time.Date(2025, 3, 13, 16, 0, 0, 0, time.UTC))

	manager := &models.User{ID: primitive.NewObjectID(), Role: models.RoleManager}
	assignee := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee}
	colleague := &models.User{ID: primitive.NewObjectID(), Role: models.RoleEmployee}
	task := &models.Task{
		ID:         primitive.NewObjectID(),
		Title:      "Quarterly stock count",
		AssignedTo: assignee.ID,
		AssignedBy: manager.ID,
		DueDate:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Priority:   "high",
		Status:     models.TaskInProgress,
	}
	tasks := newFakeTasks(task)
	h := NewTaskHandler(tasks, newFakeUsers(manager, assignee, colleague))

	call := func(t *testing.T, u *models.User, method, path string, body interface{}) (int, envelope) {
		t.Helper()
		app := newTestApp(&models.Claims{UserID: u.ID, Role: u.Role})
		app.Post("/tasks/:id/responses", h.SubmitResponse)
		app.Put("/tasks/responses/:id/rate", h.RateResponse)
		return doJSON(t, app, method, path, body)
	}
	submitPath := "/tasks/" + task.ID.Hex() + "/responses"
	answer := models.TaskResponsePayload{Response: "Counted and reconciled, two variances logged."}

	if status, env := call(t, colleague, "POST", submitPath, answer); status != 403 {
		t.Fatalf("colleague response status = %d (%s), want 403", status, env.Message)
	}

	status, env := call(t, assignee, "POST", submitPath, answer)
	if status != 201 {
		t.Fatalf("status = %d (%s), want 201", status, env.Message)
	}
	var resp models.TaskResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	saved := tasks.tasks[task.ID]
	if saved.Status != models.TaskCompleted || saved.CompletedAt == nil {
		t.Fatalf("task status = %q completed_at %v, want completed", saved.Status, saved.CompletedAt)
	}
	if !saved.CompletedOnTime() {
		t.Errorf("task finished before its due date is not on time")
	}

	ratePath := "/tasks/responses/" + resp.ID.Hex() + "/rate"
	tests := []struct {
		name string
		user *models.User
		body models.TaskRatingPayload
		want int
	}{
		{"assignee cannot rate", assignee, models.TaskRatingPayload{Rating: 5}, 403},
		{"rating out of range", manager, models.TaskRatingPayload{Rating: 6}, 400},
		{"assigner rates", manager, models.TaskRatingPayload{Rating: 4, Feedback: "Thorough"}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, tt.user, "PUT", ratePath, tt.body)
			if status != tt.want {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.want)
			}
		})
	}

	rated := tasks.responses[resp.ID]
	if rated.Rating != 4 || rated.Feedback != "Thorough" {
		t.Errorf("rating %d feedback %q, want 4 and Thorough", rated.Rating, rated.Feedback)
	}
	if rated.ReviewerID == nil || *rated.ReviewerID != manager.ID {
		t.Errorf("reviewer = %v, want the assigner", rated.ReviewerID)
	}
}
