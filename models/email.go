package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EmailSent    = "sent"
	EmailFailed  = "failed"
	EmailSkipped = "skipped"

	EmailCategoryWelcome   = "welcome"
	EmailCategoryReset     = "password_reset"
	EmailCategoryPayslip   = "payslip"
	EmailCategoryIncrement = "increment"
	EmailCategoryLeave     = "leave"
	EmailCategoryHiring    = "hiring"
	EmailCategoryGeneral   = "general"
)

type Email struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	To        []string           `json:"to" bson:"to"`
	Subject   string             `json:"subject" bson:"subject"`
	Body      string             `json:"body" bson:"body"`
	Category  string             `json:"category" bson:"category"`
	Status    string             `json:"status" bson:"status"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	MessageID string             `json:"message_id" bson:"message_id"`
	SentAt    *time.Time         `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type SendMailPayload struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"required,min=2,max=200"`
	Body    string   `json:"body" validate:"required,min=2,max=20000"`
}
