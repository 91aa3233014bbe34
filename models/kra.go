package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KRADraft     = "draft"
	KRASubmitted = "submitted"
	KRAEvaluated = "evaluated"
)

type KRAItem struct {
	Title         string  `json:"title" bson:"title" validate:"required,min=2,max=150"`
	Description   string  `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Weight        float64 `json:"weight" bson:"weight" validate:"gt=0,lte=100"`
	Target        float64 `json:"target" bson:"target" validate:"min=0"`
	Achieved      float64 `json:"achieved" bson:"achieved" validate:"min=0"`
	SelfRating    int     `json:"self_rating,omitempty" bson:"self_rating,omitempty" validate:"omitempty,min=1,max=5"`
	ManagerRating int     `json:"manager_rating,omitempty" bson:"manager_rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type KRA struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Year        int                 `json:"year" bson:"year"`
	Quarter     int                 `json:"quarter" bson:"quarter"`
	Items       []KRAItem           `json:"items" bson:"items"`
	TotalWeight float64             `json:"total_weight" bson:"total_weight"`
	Score       float64             `json:"score" bson:"score"`
	Grade       string              `json:"grade,omitempty" bson:"grade,omitempty"`
	Status      string              `json:"status" bson:"status"`
	EvaluatedBy *primitive.ObjectID `json:"evaluated_by,omitempty" bson:"evaluated_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

type KRAPayload struct {
	UserID  string    `json:"user_id" validate:"required,objectid"`
	Year    int       `json:"year" validate:"required,min=2000,max=2100"`
	Quarter int       `json:"quarter" validate:"required,min=1,max=4"`
	Items   []KRAItem `json:"items" validate:"required,min=1,dive"`
}

type KRASelfRatingPayload struct {
	Ratings []int `json:"ratings" validate:"required,min=1,dive,min=1,max=5"`
}

type KRAEvaluationItem struct {
	Achieved      float64 `json:"achieved" validate:"min=0"`
	ManagerRating int     `json:"manager_rating" validate:"required,min=1,max=5"`
}

type KRAEvaluationPayload struct {
	Items []KRAEvaluationItem `json:"items" validate:"required,min=1,dive"`
}
