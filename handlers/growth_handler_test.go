package handlers

import (
	"encoding/json"
	"testing"

	"hrms-backend/models"
)

func TestGrowthMetricsAcrossYearBoundary(t *testing.T) {
	growth := &fakeGrowth{quarters: []models.CompanyGrowth{
		{Year: 2024, Quarter: 3, Revenue: 400000, Expenses: 300000, EmployeeCount: 10},
		{Year: 2024, Quarter: 4, Revenue: 1000000, Expenses: 800000, TargetRevenue: 900000, EmployeeCount: 50},
		{Year: 2025, Quarter: 1, Revenue: 1200000, Expenses: 900000, TargetRevenue: 1000000, EmployeeCount: 55},
		{Year: 2026, Quarter: 1, Revenue: 500000, Expenses: 400000, TargetRevenue: 500000, EmployeeCount: 40},
	}}
	h := NewGrowthHandler(growth)

	app := newTestApp(&models.Claims{Role: models.RoleEmployee})
	app.Get("/company-growth/:year/:quarter/metrics", h.GetMetrics)

	tests := []struct {
		name string
		path string
		code int
		want models.GrowthMetrics
	}{
		{
			name: "Q1 compares with the previous Q4",
			path: "/company-growth/2025/1/metrics",
			code: 200,
			// 0.4*20 + 0.3*25 + 0.3*120/1.5
			want: models.GrowthMetrics{Year: 2025, Quarter: 1, RevenueGrowth: 20, EmployeeGrowth: 10, ProfitMargin: 25, ExpenseRatio: 75,
				TargetAchievement: 120, RevenuePerEmployee: 21818.18, GrowthScore: 39.5},
		},
		{
			name: "Q1 without a previous Q4",
			path: "/company-growth/2026/1/metrics",
			code: 200,
			want: models.GrowthMetrics{Year: 2026, Quarter: 1, ProfitMargin: 20, ExpenseRatio: 80,
				TargetAchievement: 100, RevenuePerEmployee: 12500, GrowthScore: 26},
		},
		{name: "unknown quarter", path: "/company-growth/2025/2/metrics", code: 404},
		{name: "quarter out of range", path: "/company-growth/2025/5/metrics", code: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, "GET", tt.path, nil)
			if status != tt.code {
				t.Fatalf("status = %d (%s), want %d", status, env.Message, tt.code)
			}
			if status != 200 {
				return
			}
			var got models.GrowthMetrics
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatalf("decode metrics: %v", err)
			}
			if got != tt.want {
				t.Errorf("metrics = %+v\nwant      %+v", got, tt.want)
			}
		})
	}
}
