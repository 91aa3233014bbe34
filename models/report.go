package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a denormalized per-employee summary, rebuilt on demand.
type Report struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID               primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name                 string             `json:"name" bson:"name"`
	EmployeeID           string             `json:"employee_id" bson:"employee_id"`
	Department           string             `json:"department" bson:"department"`
	Designation          string             `json:"designation" bson:"designation"`
	Month                string             `json:"month" bson:"month"`
	AttendanceRate       float64            `json:"attendance_rate" bson:"attendance_rate"`
	PresentDays          int                `json:"present_days" bson:"present_days"`
	LateDays             int                `json:"late_days" bson:"late_days"`
	LeaveDays            int                `json:"leave_days" bson:"leave_days"`
	LastNetPay           float64            `json:"last_net_pay" bson:"last_net_pay"`
	LastPerformanceScore float64            `json:"last_performance_score" bson:"last_performance_score"`
	LastKRAScore         float64            `json:"last_kra_score" bson:"last_kra_score"`
	GeneratedAt          time.Time          `json:"generated_at" bson:"generated_at"`
}

type ReportGeneratePayload struct {
	UserID string `json:"user_id" validate:"omitempty,objectid"`
	Month  string `json:"month" validate:"omitempty,yearmonth"`
}

type Counter struct {
	Name string `json:"name" bson:"_id"`
	Seq  int64  `json:"seq" bson:"seq"`
}
