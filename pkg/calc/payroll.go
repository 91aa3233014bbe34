package calc

import (
	"time"

	"github.com/shopspring/decimal"

	"hrms-backend/models"
)

var (
	basicShare      = decimal.NewFromFloat(0.5)
	hraShare        = decimal.NewFromFloat(0.4)
	pfRate          = decimal.NewFromFloat(0.12)
	pfWageCeiling   = decimal.NewFromInt(15000)
	ptThreshold     = decimal.NewFromInt(15000)
	professionalTax = decimal.NewFromInt(200)
	overtimeRate    = decimal.NewFromFloat(1.5)
	payDaysPerMonth = decimal.NewFromInt(26)
	gratuityDays    = decimal.NewFromInt(15)
	noticeMonthDays = decimal.NewFromInt(30)
)

const gratuityMinYears = 5

type Adjustment struct {
	Type   string
	Amount float64
}

type PayrollInput struct {
	MonthlySalary float64
	WorkingDays   int
	PresentDays   float64
	HalfDays      float64
	PaidLeaveDays float64
	HolidayDays   float64
	OvertimeHours float64
	StandardHours float64
	Adjustments   []Adjustment
}

type PayrollResult struct {
	PaidDays        float64           `json:"paid_days"`
	LOPDays         float64           `json:"lop_days"`
	Earnings        models.Earnings   `json:"earnings"`
	Deductions      models.Deductions `json:"deductions"`
	Gross           float64           `json:"gross"`
	TotalDeductions float64           `json:"total_deductions"`
	NetPay          float64           `json:"net_pay"`
}

func CalculatePayroll(in PayrollInput) PayrollResult {
	monthly := dec(in.MonthlySalary)
	basic := monthly.Mul(basicShare)
	hra := basic.Mul(hraShare)
	special := monthly.Sub(basic).Sub(hra)

	var res PayrollResult
	var perDay, overtimeHourly decimal.Decimal
	if in.WorkingDays > 0 {
		wd := decimal.NewFromInt(int64(in.WorkingDays))
		perDay = monthly.Div(wd)
		if in.StandardHours > 0 {
			overtimeHourly = monthly.Div(wd.Mul(dec(in.StandardHours)))
		}
		paid := in.PresentDays + 0.5*in.HalfDays + in.PaidLeaveDays + in.HolidayDays
		res.PaidDays = clamp(paid, 0, float64(in.WorkingDays))
		res.LOPDays = float64(in.WorkingDays) - res.PaidDays
	}

	overtime := overtimeHourly.Mul(dec(in.OvertimeHours)).Mul(overtimeRate)
	lop := perDay.Mul(dec(res.LOPDays))

	var plus, minus decimal.Decimal
	for _, a := range in.Adjustments {
		switch a.Type {
		case models.AdjustmentEarning:
			plus = plus.Add(dec(a.Amount))
		case models.AdjustmentDeduction:
			minus = minus.Add(dec(a.Amount))
		}
	}

	pf := decimal.Min(basic, pfWageCeiling).Mul(pfRate)
	gross := basic.Add(hra).Add(special).Add(overtime).Add(plus)
	pt := decimal.Zero
	if gross.GreaterThan(ptThreshold) {
		pt = professionalTax
	}

	res.Earnings = models.Earnings{
		Basic:            money(basic),
		HRA:              money(hra),
		SpecialAllowance: money(special),
		Overtime:         money(overtime),
		Adjustments:      money(plus),
	}
	res.Deductions = models.Deductions{
		PF:              money(pf),
		ProfessionalTax: money(pt),
		LOP:             money(lop),
		Adjustments:     money(minus),
	}

	grossR := basic.Round(2).Add(hra.Round(2)).Add(special.Round(2)).Add(overtime.Round(2)).Add(plus.Round(2))
	dedR := pf.Round(2).Add(pt).Add(lop.Round(2)).Add(minus.Round(2))
	net := grossR.Sub(dedR)
	if net.IsNegative() {
		net = decimal.Zero
	}
	res.Gross = money(grossR)
	res.TotalDeductions = money(dedR)
	res.NetPay = money(net)
	return res
}

type FnFInput struct {
	MonthlySalary       float64
	DateOfJoining       time.Time
	LastWorkingDay      time.Time
	UnusedLeaves        float64
	NoticeShortfallDays int
	OtherEarnings       float64
	OtherDeductions     float64
}

type FnFResult struct {
	YearsOfService  int     `json:"years_of_service"`
	PendingSalary   float64 `json:"pending_salary"`
	LeaveEncashment float64 `json:"leave_encashment"`
	Gratuity        float64 `json:"gratuity"`
	NoticeRecovery  float64 `json:"notice_recovery"`
	NetPayable      float64 `json:"net_payable"`
}

// CalculateFullAndFinal settles an exiting employee: salary for the days worked
// in the final month, leave encashment, gratuity after five years, less any
// notice-period recovery.
func CalculateFullAndFinal(in FnFInput) FnFResult {
	monthly := dec(in.MonthlySalary)
	basic := monthly.Mul(basicShare)
	lwd := in.LastWorkingDay

	daysInMonth := time.Date(lwd.Year(), lwd.Month()+1, 0, 0, 0, 0, 0, lwd.Location()).Day()
	pending := monthly.Div(decimal.NewFromInt(int64(daysInMonth))).Mul(decimal.NewFromInt(int64(lwd.Day())))
	encashment := dec(in.UnusedLeaves).Mul(basic).Div(payDaysPerMonth)

	years := CompletedYears(in.DateOfJoining, lwd)
	gratuity := decimal.Zero
	if years >= gratuityMinYears {
		gratuity = gratuityDays.Div(payDaysPerMonth).Mul(basic).Mul(decimal.NewFromInt(int64(years)))
	}
	recovery := decimal.NewFromInt(int64(in.NoticeShortfallDays)).Mul(monthly).Div(noticeMonthDays)

	res := FnFResult{
		YearsOfService:  years,
		PendingSalary:   money(pending),
		LeaveEncashment: money(encashment),
		Gratuity:        money(gratuity),
		NoticeRecovery:  money(recovery),
	}
	payable := dec(res.PendingSalary).Add(dec(res.LeaveEncashment)).Add(dec(res.Gratuity)).
		Add(dec(in.OtherEarnings)).Sub(dec(res.NoticeRecovery)).Sub(dec(in.OtherDeductions))
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	res.NetPayable = money(payable)
	return res
}

// CompletedYears counts full anniversaries between from and to.
func CompletedYears(from, to time.Time) int {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
