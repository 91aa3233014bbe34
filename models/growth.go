package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyGrowth is a quarterly financial snapshot.
type CompanyGrowth struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Year          int                `json:"year" bson:"year"`
	Quarter       int                `json:"quarter" bson:"quarter"`
	Revenue       float64            `json:"revenue" bson:"revenue"`
	Expenses      float64            `json:"expenses" bson:"expenses"`
	Profit        float64            `json:"profit" bson:"profit"`
	TargetRevenue float64            `json:"target_revenue" bson:"target_revenue"`
	EmployeeCount int                `json:"employee_count" bson:"employee_count"`
	NewClients    int                `json:"new_clients" bson:"new_clients"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type CompanyGrowthPayload struct {
	Year          int     `json:"year" validate:"required,min=2000,max=2100"`
	Quarter       int     `json:"quarter" validate:"required,min=1,max=4"`
	Revenue       float64 `json:"revenue" validate:"min=0"`
	Expenses      float64 `json:"expenses" validate:"min=0"`
	TargetRevenue float64 `json:"target_revenue" validate:"min=0"`
	EmployeeCount int     `json:"employee_count" validate:"min=0"`
	NewClients    int     `json:"new_clients" validate:"min=0"`
	Notes         string  `json:"notes" validate:"omitempty,max=1000"`
}

type GrowthMetrics struct {
	Year               int     `json:"year"`
	Quarter            int     `json:"quarter"`
	RevenueGrowth      float64 `json:"revenue_growth"`
	ProfitMargin       float64 `json:"profit_margin"`
	ExpenseRatio       float64 `json:"expense_ratio"`
	TargetAchievement  float64 `json:"target_achievement"`
	EmployeeGrowth     float64 `json:"employee_growth"`
	RevenuePerEmployee float64 `json:"revenue_per_employee"`
	GrowthScore        float64 `json:"growth_score"`
}
