package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

type Task struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	AssignedTo  primitive.ObjectID `json:"assigned_to" bson:"assigned_to"`
	AssignedBy  primitive.ObjectID `json:"assigned_by" bson:"assigned_by"`
	DueDate     time.Time          `json:"due_date" bson:"due_date"`
	Priority    string             `json:"priority" bson:"priority"`
	Status      string             `json:"status" bson:"status"`
	CompletedAt *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CompletedOnTime reports whether a completed task finished by the end of its due date.
func (t *Task) CompletedOnTime() bool {
	if t.CompletedAt == nil {
		return false
	}
	deadline := t.DueDate.Add(24 * time.Hour)
	return t.CompletedAt.Before(deadline)
}

type TaskPayload struct {
	Title       string `json:"title" validate:"required,min=3,max=150"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  string `json:"assigned_to" validate:"required,objectid"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

type TaskStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

type TaskResponse struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TaskID      primitive.ObjectID  `json:"task_id" bson:"task_id"`
	UserID      primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Response    string              `json:"response" bson:"response"`
	SubmittedAt time.Time           `json:"submitted_at" bson:"submitted_at"`
	Rating      int                 `json:"rating,omitempty" bson:"rating,omitempty"`
	ReviewerID  *primitive.ObjectID `json:"reviewer_id,omitempty" bson:"reviewer_id,omitempty"`
	Feedback    string              `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

type TaskResponsePayload struct {
	Response string `json:"response" validate:"required,min=2,max=5000"`
}

type TaskRatingPayload struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"omitempty,max=2000"`
}
