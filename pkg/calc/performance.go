package calc

import (
	"errors"

	"hrms-backend/models"
)

var ErrWeightExceeded = errors.New("total KRA weight exceeds 100")

const (
	maxAchievement = 120.0
	maxRating      = 5.0
)

type MetricsInput struct {
	TasksAssigned   int
	TasksCompleted  int
	CompletedOnTime int
	Ratings         []int
	PresentDays     float64
	WorkingDays     int
}

func CalculatePerformanceMetrics(in MetricsInput) models.PerformanceMetrics {
	var m models.PerformanceMetrics

	m.TaskCompletionRate = Round2(percentOf(float64(in.TasksCompleted), float64(in.TasksAssigned)))
	m.OnTimeRate = Round2(percentOf(float64(in.CompletedOnTime), float64(in.TasksCompleted)))
	if len(in.Ratings) > 0 {
		sum := 0
		for _, r := range in.Ratings {
			sum += r
		}
		m.AverageRating = Round2(float64(sum) / float64(len(in.Ratings)))
	}
	m.AttendanceRate = Round2(clamp(percentOf(in.PresentDays, float64(in.WorkingDays)), 0, 100))

	overall := 0.35*m.TaskCompletionRate +
		0.25*m.OnTimeRate +
		0.25*(m.AverageRating/maxRating*100) +
		0.15*m.AttendanceRate
	m.OverallScore = Round2(overall)
	return m
}

func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

// TotalWeight sums item weights and fails when they exceed 100.
func TotalWeight(items []models.KRAItem) (float64, error) {
	total := 0.0
	for _, it := range items {
		total += it.Weight
	}
	total = Round2(total)
	if total > 100 {
		return total, ErrWeightExceeded
	}
	return total, nil
}

// CalculateKRAScore weighs each item's achievement (capped at 120%) into a
// single score. Items without a numeric target fall back to the manager rating.
func CalculateKRAScore(items []models.KRAItem) (score float64, totalWeight float64, err error) {
	totalWeight, err = TotalWeight(items)
	if err != nil {
		return 0, totalWeight, err
	}
	for _, it := range items {
		var achievement float64
		if it.Target > 0 {
			achievement = it.Achieved / it.Target * 100
		} else {
			achievement = float64(it.ManagerRating) / maxRating * 100
		}
		if achievement > maxAchievement {
			achievement = maxAchievement
		}
		score += achievement * it.Weight / 100
	}
	return Round2(score), totalWeight, nil
}

// ConsolidateScore blends the available quarterly components. Missing parts
// are dropped and the remaining weights re-normalised; ok is false when
// nothing is available.
func ConsolidateScore(kraScore, reviewRating, metricsScore *float64) (score float64, ok bool) {
	type part struct {
		value  *float64
		weight float64
		scale  float64
	}
	parts := []part{
		{kraScore, 0.5, 1},
		{reviewRating, 0.3, 100 / maxRating},
		{metricsScore, 0.2, 1},
	}

	var sum, weights float64
	for _, p := range parts {
		if p.value == nil {
			continue
		}
		sum += *p.value * p.scale * p.weight
		weights += p.weight
	}
	if weights == 0 {
		return 0, false
	}
	return Round2(sum / weights), true
}
