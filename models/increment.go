package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	IncrementProposed = "proposed"
	IncrementApproved = "approved"
	IncrementRejected = "rejected"

	IncentivePLI = "PLI"
	IncentiveVLI = "VLI"

	IncentiveCalculated = "calculated"
	IncentiveApproved   = "approved"
	IncentivePaid       = "paid"
)

type SalaryIncrement struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Year             int                 `json:"year" bson:"year"`
	PreviousSalary   float64             `json:"previous_salary" bson:"previous_salary"`
	PerformanceGrade string              `json:"performance_grade" bson:"performance_grade"`
	GrowthScore      float64             `json:"growth_score" bson:"growth_score"`
	GrowthMultiplier float64             `json:"growth_multiplier" bson:"growth_multiplier"`
	IncrementPercent float64             `json:"increment_percent" bson:"increment_percent"`
	NewSalary        float64             `json:"new_salary" bson:"new_salary"`
	EffectiveDate    string              `json:"effective_date" bson:"effective_date"`
	Status           string              `json:"status" bson:"status"`
	ApprovedBy       *primitive.ObjectID `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	Remarks          string              `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

type IncrementCalculationPayload struct {
	UserID        string `json:"user_id" validate:"required,objectid"`
	Year          int    `json:"year" validate:"required,min=2000,max=2100"`
	EffectiveDate string `json:"effective_date" validate:"omitempty,datetime=2006-01-02"`
}

type DecisionPayload struct {
	Remarks string `json:"remarks" validate:"omitempty,max=500"`
}

// Incentive is a PLI or VLI payout for one quarter.
type Incentive struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Year              int                 `json:"year" bson:"year"`
	Quarter           int                 `json:"quarter" bson:"quarter"`
	Type              string              `json:"type" bson:"type"`
	PerformanceScore  float64             `json:"performance_score" bson:"performance_score"`
	TargetAchievement float64             `json:"target_achievement" bson:"target_achievement"`
	EligibleAmount    float64             `json:"eligible_amount" bson:"eligible_amount"`
	PerformanceFactor float64             `json:"performance_factor" bson:"performance_factor"`
	CompanyFactor     float64             `json:"company_factor" bson:"company_factor"`
	Payout            float64             `json:"payout" bson:"payout"`
	Status            string              `json:"status" bson:"status"`
	ApprovedBy        *primitive.ObjectID `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	PaidAt            *time.Time          `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" bson:"updated_at"`
}

type IncentiveCalculationPayload struct {
	UserID  string `json:"user_id" validate:"required,objectid"`
	Year    int    `json:"year" validate:"required,min=2000,max=2100"`
	Quarter int    `json:"quarter" validate:"required,min=1,max=4"`
	Type    string `json:"type" validate:"required,oneof=PLI VLI"`
}
