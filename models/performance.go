package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReviewDraft        = "draft"
	ReviewSubmitted    = "submitted"
	ReviewAcknowledged = "acknowledged"
)

type PerformanceMetrics struct {
	TaskCompletionRate float64 `json:"task_completion_rate" bson:"task_completion_rate"`
	OnTimeRate         float64 `json:"on_time_rate" bson:"on_time_rate"`
	AverageRating      float64 `json:"average_rating" bson:"average_rating"`
	AttendanceRate     float64 `json:"attendance_rate" bson:"attendance_rate"`
	OverallScore       float64 `json:"overall_score" bson:"overall_score"`
}

// PerformanceScore is the monthly metrics snapshot for one employee.
type PerformanceScore struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Period    string             `json:"period" bson:"period"`
	Metrics   PerformanceMetrics `json:"metrics" bson:"metrics"`
	Grade     string             `json:"grade" bson:"grade"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type CompetencyRating struct {
	Competency string `json:"competency" bson:"competency" validate:"required,min=2,max=80"`
	Rating     int    `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
}

type PerformanceReview struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id"`
	ReviewerID    primitive.ObjectID `json:"reviewer_id" bson:"reviewer_id"`
	Year          int                `json:"year" bson:"year"`
	Quarter       int                `json:"quarter" bson:"quarter"`
	Ratings       []CompetencyRating `json:"ratings" bson:"ratings"`
	OverallRating float64            `json:"overall_rating" bson:"overall_rating"`
	Strengths     string             `json:"strengths,omitempty" bson:"strengths,omitempty"`
	Improvements  string             `json:"improvements,omitempty" bson:"improvements,omitempty"`
	Status        string             `json:"status" bson:"status"`
	SubmittedAt   *time.Time         `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type PerformanceReviewPayload struct {
	UserID       string             `json:"user_id" validate:"required,objectid"`
	Year         int                `json:"year" validate:"required,min=2000,max=2100"`
	Quarter      int                `json:"quarter" validate:"required,min=1,max=4"`
	Ratings      []CompetencyRating `json:"ratings" validate:"required,min=1,dive"`
	Strengths    string             `json:"strengths" validate:"omitempty,max=2000"`
	Improvements string             `json:"improvements" validate:"omitempty,max=2000"`
}

// Performance is the consolidated quarterly record used by increments and incentives.
type Performance struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id"`
	Year         int                `json:"year" bson:"year"`
	Quarter      int                `json:"quarter" bson:"quarter"`
	KRAScore     *float64           `json:"kra_score,omitempty" bson:"kra_score,omitempty"`
	ReviewRating *float64           `json:"review_rating,omitempty" bson:"review_rating,omitempty"`
	MetricsScore *float64           `json:"metrics_score,omitempty" bson:"metrics_score,omitempty"`
	FinalScore   float64            `json:"final_score" bson:"final_score"`
	Grade        string             `json:"grade" bson:"grade"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type ScoreCalculationPayload struct {
	UserID string `json:"user_id" validate:"required,objectid"`
	Period string `json:"period" validate:"required,yearmonth"`
}

type ConsolidationPayload struct {
	UserID  string `json:"user_id" validate:"required,objectid"`
	Year    int    `json:"year" validate:"required,min=2000,max=2100"`
	Quarter int    `json:"quarter" validate:"required,min=1,max=4"`
}
