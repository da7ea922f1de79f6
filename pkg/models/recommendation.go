package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Strategy identifies one of the scoring strategies, or the hybrid blend.
type Strategy string

const (
	StrategyHybrid        Strategy = "hybrid"
	StrategySemantic      Strategy = "semantic"
	StrategyPredictive    Strategy = "predictive"
	StrategyCollaborative Strategy = "collaborative"
)

// ParseStrategy maps a request string onto a known strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyHybrid, StrategySemantic, StrategyPredictive, StrategyCollaborative:
		return Strategy(s), nil
	case "":
		return StrategyHybrid, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// ScoreRecord is one strategy's verdict on one candidate course. Ephemeral,
// produced per request.
type ScoreRecord struct {
	CourseID string   `json:"course_id"`
	Strategy Strategy `json:"strategy"`
	Score    float64  `json:"score"` // always in [0,1]
	Note     string   `json:"note,omitempty"`
}

// Recommendation is the API boundary output for one course.
type Recommendation struct {
	Course     Course               `json:"course"`
	Score      float64              `json:"score"`      // blended, in [0,1]
	Confidence float64              `json:"confidence"` // in [0.1,0.95]
	Breakdown  map[Strategy]float64 `json:"breakdown"`
	Reasoning  string               `json:"reasoning"`
	Position   int                  `json:"position"`
}

// RecommendRequest describes one recommendation call.
type RecommendRequest struct {
	StudentID  string   `json:"student_id" validate:"required"`
	Count      int      `json:"count" validate:"min=1,max=50"`
	Strategy   Strategy `json:"strategy" validate:"required,oneof=hybrid semantic predictive collaborative"`
	Categories []string `json:"categories,omitempty"`
}

// RecommendationReport is the persisted form of one recommendation run.
type RecommendationReport struct {
	RequestID       uuid.UUID        `json:"request_id"`
	StudentID       string           `json:"student_id"`
	Strategy        Strategy         `json:"strategy"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Recommendations []Recommendation `json:"recommendations"`
}
