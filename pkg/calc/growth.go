package calc

import (
	"math"

	"github.com/shopspring/decimal"

	"hrms-backend/models"
)

const (
	maxIncrementPercent = 25.0
	maxPerfFactor       = 1.2
	maxCompanyFactor    = 1.5
	vliScoreGate        = 50.0
)

var gradeBasePercent = map[string]float64{
	"A+": 15,
	"A":  12,
	"B+": 10,
	"B":  8,
	"C":  5,
	"D":  0,
}

// CalculateGrowthMetrics derives ratios for a quarter; previous may be nil.
func CalculateGrowthMetrics(current, previous *models.CompanyGrowth) models.GrowthMetrics {
	if current == nil {
		return models.GrowthMetrics{}
	}
	m := models.GrowthMetrics{Year: current.Year, Quarter: current.Quarter}
	profit := current.Revenue - current.Expenses

	if previous != nil && previous.Revenue > 0 {
		m.RevenueGrowth = Round2((current.Revenue - previous.Revenue) / previous.Revenue * 100)
	}
	if previous != nil && previous.EmployeeCount > 0 {
		m.EmployeeGrowth = Round2(float64(current.EmployeeCount-previous.EmployeeCount) / float64(previous.EmployeeCount) * 100)
	}
	m.ProfitMargin = Round2(percentOfSigned(profit, current.Revenue))
	m.ExpenseRatio = Round2(percentOf(current.Expenses, current.Revenue))
	m.TargetAchievement = Round2(percentOf(current.Revenue, current.TargetRevenue))
	if current.EmployeeCount > 0 {
		m.RevenuePerEmployee = Round2(current.Revenue / float64(current.EmployeeCount))
	}

	m.GrowthScore = Round2(0.4*m.RevenueGrowth +
		0.3*m.ProfitMargin +
		0.3*math.Min(m.TargetAchievement, 150)/1.5)
	return m
}

func percentOfSigned(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func GrowthMultiplier(growthScore float64) float64 {
	switch {
	case growthScore >= 40:
		return 1.2
	case growthScore >= 25:
		return 1.1
	case growthScore >= 10:
		return 1.0
	case growthScore >= 0:
		return 0.9
	default:
		return 0.75
	}
}

type IncrementResult struct {
	BasePercent      float64 `json:"base_percent"`
	Multiplier       float64 `json:"multiplier"`
	IncrementPercent float64 `json:"increment_percent"`
	NewSalary        float64 `json:"new_salary"`
}

// CalculateIncrement scales the grade's base percentage by company growth,
// capped at 25%. Unknown grades earn nothing.
func CalculateIncrement(current float64, grade string, growthScore float64) IncrementResult {
	base := gradeBasePercent[grade]
	mult := GrowthMultiplier(growthScore)
	pct := Round2(math.Min(base*mult, maxIncrementPercent))

	salary := dec(current)
	newSalary := salary.Add(salary.Mul(dec(pct)).Div(hundred))
	return IncrementResult{
		BasePercent:      base,
		Multiplier:       mult,
		IncrementPercent: pct,
		NewSalary:        money(newSalary),
	}
}

type IncentiveResult struct {
	EligibleAmount    float64 `json:"eligible_amount"`
	PerformanceFactor float64 `json:"performance_factor"`
	CompanyFactor     float64 `json:"company_factor"`
	Payout            float64 `json:"payout"`
}

// CalculateIncentive computes a quarterly PLI or VLI payout. VLI additionally
// scales by company target achievement and pays nothing below a score of 50.
func CalculateIncentive(kind string, monthlySalary, pliPercent, score, targetAchievement float64) IncentiveResult {
	eligible := dec(monthlySalary).Mul(decimal.NewFromInt(12)).Mul(dec(pliPercent)).Div(hundred).Div(decimal.NewFromInt(4))

	perf := Round2(clamp(score/100, 0, maxPerfFactor))
	company := Round2(clamp(targetAchievement/100, 0, maxCompanyFactor))

	res := IncentiveResult{
		EligibleAmount:    money(eligible),
		PerformanceFactor: perf,
		CompanyFactor:     company,
	}
	switch kind {
	case models.IncentiveVLI:
		if score < vliScoreGate {
			res.PerformanceFactor = 0
		}
		res.Payout = money(eligible.Mul(dec(company)).Mul(dec(res.PerformanceFactor)))
	default:
		res.Payout = money(eligible.Mul(dec(perf)))
	}
	return res
}
