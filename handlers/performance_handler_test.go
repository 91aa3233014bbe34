package handlers

import (
	"reflect"
	"testing"

	"hrms-backend/models"
)

func TestQuarterPeriods(t *testing.T) {
	tests := []struct {
		year, quarter int
		want          []string
	}{
		{2025, 1, []string{"2025-01", "2025-02", "2025-03"}},
		{2025, 4, []string{"2025-10", "2025-11", "2025-12"}},
	}
	for _, tt := range tests {
		if got := quarterPeriods(tt.year, tt.quarter); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("quarterPeriods(%d, %d) = %v, want %v", tt.year, tt.quarter, got, tt.want)
		}
	}
}

func TestPreviousQuarter(t *testing.T) {
	if y, q := previousQuarter(2025, 1); y != 2024 || q != 4 {
		t.Errorf("previousQuarter(2025, 1) = %d Q%d, want 2024 Q4", y, q)
	}
	if y, q := previousQuarter(2025, 3); y != 2025 || q != 2 {
		t.Errorf("previousQuarter(2025, 3) = %d Q%d, want 2025 Q2", y, q)
	}
}

func TestOverallRating(t *testing.T) {
	if got := overallRating(nil); got != 0 {
		t.Errorf("empty ratings = %v, want 0", got)
	}
	ratings := []models.CompetencyRating{{Rating: 4}, {Rating: 5}, {Rating: 3}}
	if got := overallRating(ratings); got != 4 {
		t.Errorf("overall = %v, want 4", got)
	}
	ratings = append(ratings, models.CompetencyRating{Rating: 2})
	if got := overallRating(ratings); got != 3.5 {
		t.Errorf("overall = %v, want 3.5", got)
	}
}
