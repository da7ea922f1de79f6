// Package predictor provides the predictive-performance collaborator: a
// local heuristic model and an HTTP client for a remote prediction service.
// Both predict a grade on a 0-100 scale for a (student, course) pair.
package predictor

import (
	"context"
	"math"

	"github.com/stuvia/courserank/pkg/models"
)

// Prediction is the collaborator's verdict for one (student, course) pair.
type Prediction struct {
	PredictedGrade float64 `json:"predicted_grade"` // 0-100
	Confidence     float64 `json:"confidence"`      // 0-1
	RiskLevel      string  `json:"risk_level"`
}

// Risk levels for a predicted grade.
const (
	RiskAtRisk    = "at_risk"
	RiskAverage   = "average"
	RiskExcelling = "excelling"
)

// Predictor estimates how a student will perform in a candidate course.
type Predictor interface {
	PredictPerformance(ctx context.Context, student *models.StudentProfile, course models.Course) (*Prediction, error)
}

// Heuristic predicts from the student's grade history: the baseline is the
// current average (75 for students with no grades yet), adjusted down for
// advanced courses and up for beginner ones, clamped to [0,100].
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) PredictPerformance(_ context.Context, student *models.StudentProfile, course models.Course) (*Prediction, error) {
	baseline := student.AverageGrade()
	if baseline <= 0 {
		baseline = 75.0
	}

	var adjustment float64
	switch course.Difficulty {
	case models.DifficultyAdvanced:
		adjustment = -5
	case models.DifficultyBeginner:
		adjustment = 5
	}

	predicted := math.Max(0, math.Min(100, baseline+adjustment))

	return &Prediction{
		PredictedGrade: predicted,
		Confidence:     confidenceFor(baseline, predicted),
		RiskLevel:      RiskLevelFor(predicted),
	}, nil
}

// confidenceFor shrinks as the prediction drifts from current performance.
func confidenceFor(current, predicted float64) float64 {
	difference := math.Abs(current - predicted)
	switch {
	case difference < 5:
		return 0.95
	case difference < 10:
		return 0.85
	case difference < 15:
		return 0.75
	case difference < 20:
		return 0.65
	default:
		return 0.50
	}
}

// RiskLevelFor classifies a 0-100 grade into a risk band.
func RiskLevelFor(grade float64) string {
	switch {
	case grade < 70:
		return RiskAtRisk
	case grade < 85:
		return RiskAverage
	default:
		return RiskExcelling
	}
}
