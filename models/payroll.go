package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PeriodOpen      = "open"
	PeriodProcessed = "processed"
	PeriodLocked    = "locked"

	AdjustmentEarning   = "earning"
	AdjustmentDeduction = "deduction"

	PayrollGenerated = "generated"
	PayrollPaid      = "paid"
)

type PayrollPeriod struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Month       string             `json:"month" bson:"month"`
	StartDate   string             `json:"start_date" bson:"start_date"`
	EndDate     string             `json:"end_date" bson:"end_date"`
	WorkingDays int                `json:"working_days" bson:"working_days"`
	Holidays    []string           `json:"holidays,omitempty" bson:"holidays,omitempty"`
	Status      string             `json:"status" bson:"status"`
	ProcessedAt *time.Time         `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type PayrollPeriodPayload struct {
	Month string `json:"month" validate:"required,yearmonth"`
}

type PayrollAdjustment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	PeriodID  primitive.ObjectID `json:"period_id" bson:"period_id"`
	Type      string             `json:"type" bson:"type"`
	Label     string             `json:"label" bson:"label"`
	Amount    float64            `json:"amount" bson:"amount"`
	CreatedBy primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type PayrollAdjustmentPayload struct {
	UserID string  `json:"user_id" validate:"required,objectid"`
	Type   string  `json:"type" validate:"required,oneof=earning deduction"`
	Label  string  `json:"label" validate:"required,min=2,max=80"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type Earnings struct {
	Basic            float64 `json:"basic" bson:"basic"`
	HRA              float64 `json:"hra" bson:"hra"`
	SpecialAllowance float64 `json:"special_allowance" bson:"special_allowance"`
	Overtime         float64 `json:"overtime" bson:"overtime"`
	Adjustments      float64 `json:"adjustments" bson:"adjustments"`
}

type Deductions struct {
	PF              float64 `json:"pf" bson:"pf"`
	ProfessionalTax float64 `json:"professional_tax" bson:"professional_tax"`
	LOP             float64 `json:"lop" bson:"lop"`
	Adjustments     float64 `json:"adjustments" bson:"adjustments"`
}

type Payroll struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id"`
	PeriodID        primitive.ObjectID `json:"period_id" bson:"period_id"`
	Month           string             `json:"month" bson:"month"`
	MonthlySalary   float64            `json:"monthly_salary" bson:"monthly_salary"`
	WorkingDays     int                `json:"working_days" bson:"working_days"`
	PaidDays        float64            `json:"paid_days" bson:"paid_days"`
	LOPDays         float64            `json:"lop_days" bson:"lop_days"`
	OvertimeHours   float64            `json:"overtime_hours" bson:"overtime_hours"`
	Earnings        Earnings           `json:"earnings" bson:"earnings"`
	Deductions      Deductions         `json:"deductions" bson:"deductions"`
	Gross           float64            `json:"gross" bson:"gross"`
	TotalDeductions float64            `json:"total_deductions" bson:"total_deductions"`
	NetPay          float64            `json:"net_pay" bson:"net_pay"`
	Status          string             `json:"status" bson:"status"`
	PaidAt          *time.Time         `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

type PayrollWithUser struct {
	Payroll        `bson:",inline"`
	UserName       string `json:"user_name" bson:"user_name"`
	UserEmail      string `json:"user_email" bson:"user_email"`
	UserEmployeeID string `json:"user_employee_id" bson:"user_employee_id"`
}

type PayrollGeneratePayload struct {
	UserIDs []string `json:"user_ids" validate:"omitempty,dive,objectid"`
}

type FullAndFinalPayload struct {
	UserID              string  `json:"user_id" validate:"required,objectid"`
	LastWorkingDay      string  `json:"last_working_day" validate:"required,datetime=2006-01-02"`
	UnusedLeaves        float64 `json:"unused_leaves" validate:"min=0"`
	NoticeShortfallDays int     `json:"notice_shortfall_days" validate:"min=0"`
	OtherEarnings       float64 `json:"other_earnings" validate:"min=0"`
	OtherDeductions     float64 `json:"other_deductions" validate:"min=0"`
}

type FullAndFinalSettlement struct {
	UserID          primitive.ObjectID `json:"user_id"`
	LastWorkingDay  string             `json:"last_working_day"`
	YearsOfService  int                `json:"years_of_service"`
	PendingSalary   float64            `json:"pending_salary"`
	LeaveEncashment float64            `json:"leave_encashment"`
	Gratuity        float64            `json:"gratuity"`
	OtherEarnings   float64            `json:"other_earnings"`
	NoticeRecovery  float64            `json:"notice_recovery"`
	OtherDeductions float64            `json:"other_deductions"`
	NetPayable      float64            `json:"net_payable"`
}
