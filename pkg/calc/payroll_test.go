package calc

import (
	"testing"
	"time"

	"hrms-backend/models"
)

func TestCalculatePayroll(t *testing.T) {
	res := CalculatePayroll(PayrollInput{
		MonthlySalary: 30000,
		WorkingDays:   22,
		PresentDays:   20,
		PaidLeaveDays: 1,
		OvertimeHours: 4,
		StandardHours: 8,
		Adjustments: []Adjustment{
			{Type: models.AdjustmentEarning, Amount: 1000},
			{Type: models.AdjustmentDeduction, Amount: 500},
		},
	})

	wantEarnings := models.Earnings{Basic: 15000, HRA: 6000, SpecialAllowance: 9000, Overtime: 1022.73, Adjustments: 1000}
	wantDeductions := models.Deductions{PF: 1800, ProfessionalTax: 200, LOP: 1363.64, Adjustments: 500}

	if res.Earnings != wantEarnings {
		t.Fatalf("earnings: got %+v, want %+v", res.Earnings, wantEarnings)
	}
	if res.Deductions != wantDeductions {
		t.Fatalf("deductions: got %+v, want %+v", res.Deductions, wantDeductions)
	}
	if res.PaidDays != 21 || res.LOPDays != 1 {
		t.Fatalf("days: paid=%v lop=%v", res.PaidDays, res.LOPDays)
	}
	if res.Gross != 32022.73 || res.TotalDeductions != 3863.64 || res.NetPay != 28159.09 {
		t.Fatalf("totals: gross=%v deductions=%v net=%v", res.Gross, res.TotalDeductions, res.NetPay)
	}
}

func TestCalculatePayrollNetNeverNegative(t *testing.T) {
	res := CalculatePayroll(PayrollInput{MonthlySalary: 10000, WorkingDays: 22, StandardHours: 8})
	if res.Deductions.ProfessionalTax != 0 {
		t.Fatalf("no professional tax below threshold, got %v", res.Deductions.ProfessionalTax)
	}
	if res.LOPDays != 22 || res.NetPay != 0 {
		t.Fatalf("expected full LOP and zero net, got %+v", res)
	}
}

func TestCalculatePayrollZeroWorkingDays(t *testing.T) {
	res := CalculatePayroll(PayrollInput{MonthlySalary: 20000, PresentDays: 3})
	if res.PaidDays != 0 || res.LOPDays != 0 || res.Deductions.LOP != 0 {
		t.Fatalf("unexpected days or LOP: %+v", res)
	}
}

func TestCalculateFullAndFinal(t *testing.T) {
	date := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}

	res := CalculateFullAndFinal(FnFInput{
		MonthlySalary:       60000,
		DateOfJoining:       date("2018-03-15"),
		LastWorkingDay:      date("2024-06-20"),
		UnusedLeaves:        10,
		NoticeShortfallDays: 5,
		OtherEarnings:       1000,
		OtherDeductions:     500,
	})
	want := FnFResult{
		YearsOfService:  6,
		PendingSalary:   40000,
		LeaveEncashment: 11538.46,
		Gratuity:        103846.15,
		NoticeRecovery:  10000,
		NetPayable:      145884.61,
	}
	if res != want {
		t.Fatalf("got %+v, want %+v", res, want)
	}

	short := CalculateFullAndFinal(FnFInput{
		MonthlySalary:  60000,
		DateOfJoining:  date("2021-07-01"),
		LastWorkingDay: date("2024-06-20"),
	})
	if short.YearsOfService != 2 || short.Gratuity != 0 {
		t.Fatalf("no gratuity before five years: %+v", short)
	}
}

func TestCompletedYears(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	if got := CompletedYears(d(2019, 5, 10), d(2024, 5, 10)); got != 5 {
		t.Fatalf("anniversary day counts, got %d", got)
	}
	if got := CompletedYears(d(2019, 5, 10), d(2024, 5, 9)); got != 4 {
		t.Fatalf("day before anniversary, got %d", got)
	}
	if got := CompletedYears(time.Time{}, d(2024, 1, 1)); got != 0 {
		t.Fatalf("zero joining date, got %d", got)
	}
}
