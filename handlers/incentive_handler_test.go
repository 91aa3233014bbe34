package handlers

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestCalculateIncentive(t *testing.T) {
	rated := &models.User{ID: primitive.NewObjectID(), Salary: 50000, PLIPercent: 10}
	unrated := &models.User{ID: primitive.NewObjectID(), Salary: 50000, PLIPercent: 10}
	perfs := &fakePerformance{records: []models.Performance{
		{ID: primitive.NewObjectID(), UserID: rated.ID, Year: 2025, Quarter: 1, FinalScore: 85, Grade: "A"},
	}}
	growth := &fakeGrowth{}
	incentives := &fakeIncentives{}
	h := NewIncentiveHandler(incentives, perfs, &fakeKRAs{}, growth, newFakeUsers(rated, unrated))

	app := newTestApp(&models.Claims{UserID: primitive.NewObjectID(), Role: models.RoleHR})
	app.Post("/incentives/calculate", h.CalculateIncentive)

	calculate := func(t *testing.T, user *models.User, kind string, want int) models.Incentive {
		t.Helper()
		status, env := doJSON(t, app, "POST", "/incentives/calculate", models.IncentiveCalculationPayload{
			UserID:  user.ID.Hex(),
			Year:    2025,
			Quarter: 1,
			Type:    kind,
		})
		if status != want {
			t.Fatalf("%s status = %d (%s), want %d", kind, status, env.Message, want)
		}
		var inc models.Incentive
		if status == 200 {
			if err := json.Unmarshal(env.Data, &inc); err != nil {
				t.Fatalf("decode incentive: %v", err)
			}
		}
		return inc
	}

	calculate(t, unrated, models.IncentivePLI, 422)
	calculate(t, rated, models.IncentiveVLI, 422)

	// 50000 * 12 * 10% / 4 = 15000 eligible per quarter.
	pli := calculate(t, rated, models.IncentivePLI, 200)
	if pli.EligibleAmount != 15000 || pli.PerformanceFactor != 0.85 || pli.Payout != 12750 {
		t.Errorf("PLI = eligible %.2f factor %.2f payout %.2f, want 15000 0.85 12750", pli.EligibleAmount, pli.PerformanceFactor, pli.Payout)
	}

	growth.quarters = []models.CompanyGrowth{{Year: 2025, Quarter: 1, Revenue: 1200000, Expenses: 900000, TargetRevenue: 1000000}}
	vli := calculate(t, rated, models.IncentiveVLI, 200)
	if vli.TargetAchievement != 120 || vli.CompanyFactor != 1.2 || vli.Payout != 15300 {
		t.Errorf("VLI = achievement %.2f company %.2f payout %.2f, want 120 1.2 15300", vli.TargetAchievement, vli.CompanyFactor, vli.Payout)
	}
	if len(incentives.saved) != 2 || incentives.saved[1].Status != models.IncentiveCalculated {
		t.Errorf("saved %d incentives", len(incentives.saved))
	}
}
