package calc

import (
	"errors"
	"testing"

	"hrms-backend/models"
)

func TestCalculatePerformanceMetrics(t *testing.T) {
	got := CalculatePerformanceMetrics(MetricsInput{
		TasksAssigned:   10,
		TasksCompleted:  8,
		CompletedOnTime: 6,
		Ratings:         []int{4, 5, 3},
		PresentDays:     20,
		WorkingDays:     22,
	})
	want := models.PerformanceMetrics{
		TaskCompletionRate: 80,
		OnTimeRate:         75,
		AverageRating:      4,
		AttendanceRate:     90.91,
		OverallScore:       80.39,
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCalculatePerformanceMetricsEmpty(t *testing.T) {
	got := CalculatePerformanceMetrics(MetricsInput{})
	if got != (models.PerformanceMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", got)
	}

	capped := CalculatePerformanceMetrics(MetricsInput{PresentDays: 25, WorkingDays: 22})
	if capped.AttendanceRate != 100 {
		t.Fatalf("attendance should cap at 100, got %v", capped.AttendanceRate)
	}
}

func TestGradeFor(t *testing.T) {
	cases := map[float64]string{95: "A+", 90: "A+", 85: "A", 72: "B+", 60: "B", 55: "C", 49.99: "D", 0: "D"}
	for score, want := range cases {
		if got := GradeFor(score); got != want {
			t.Fatalf("GradeFor(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestCalculateKRAScore(t *testing.T) {
	items := []models.KRAItem{
		{Title: "Revenue", Weight: 60, Target: 100, Achieved: 90},
		{Title: "Mentoring", Weight: 40, ManagerRating: 4},
	}
	score, total, err := CalculateKRAScore(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 86 || total != 100 {
		t.Fatalf("got score=%v total=%v", score, total)
	}

	capped, _, err := CalculateKRAScore([]models.KRAItem{{Weight: 50, Target: 100, Achieved: 200}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capped != 60 {
		t.Fatalf("achievement should cap at 120%%, got %v", capped)
	}

	_, _, err = CalculateKRAScore([]models.KRAItem{{Weight: 60}, {Weight: 50}})
	if !errors.Is(err, ErrWeightExceeded) {
		t.Fatalf("expected ErrWeightExceeded, got %v", err)
	}
}

func TestConsolidateScore(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	if got, ok := ConsolidateScore(f(80), f(4), f(70)); !ok || got != 78 {
		t.Fatalf("all parts: got %v ok=%v", got, ok)
	}
	if got, ok := ConsolidateScore(f(80), nil, f(70)); !ok || got != 77.14 {
		t.Fatalf("renormalised: got %v ok=%v", got, ok)
	}
	if _, ok := ConsolidateScore(nil, nil, nil); ok {
		t.Fatal("expected ok=false when nothing is available")
	}
}
