package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LeaveCasual = "casual"
	LeaveSick   = "sick"
	LeaveEarned = "earned"
	LeaveUnpaid = "unpaid"

	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveRequest struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	LeaveType string             `json:"leave_type" bson:"leave_type"`
	StartDate string             `json:"start_date" bson:"start_date"`
	EndDate   string             `json:"end_date" bson:"end_date"`
	Days      int                `json:"days" bson:"days"`
	Reason    string             `json:"reason" bson:"reason"`
	Status    string             `json:"status" bson:"status"`
	Note      string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsPaid reports whether approved days count as paid days in payroll.
func (l *LeaveRequest) IsPaid() bool {
	return l.LeaveType != LeaveUnpaid
}

type LeaveRequestCreatePayload struct {
	LeaveType string `json:"leave_type" validate:"required,oneof=casual sick earned unpaid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,min=10,max=500"`
}

type LeaveRequestUpdatePayload struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Note   string `json:"note,omitempty" validate:"omitempty,max=255"`
}

type LeaveRequestWithUser struct {
	LeaveRequest `bson:",inline"`
	UserName     string `json:"user_name" bson:"user_name"`
	UserEmail    string `json:"user_email" bson:"user_email"`
}
