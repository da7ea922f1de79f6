package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/pkg/models"
)

// Explanation thresholds. A strategy only earns a mention in the reasoning
// when its score clears the bar for that strategy.
const (
	semanticReasonThreshold      = 0.7
	predictiveReasonThreshold    = 0.75
	collaborativeReasonThreshold = 0.5

	confidenceFloor      = 0.1
	confidenceCeiling    = 0.95
	confidenceMultiplier = 1.2
)

// ExplanationService turns blended scores and per-strategy breakdowns into
// a confidence value and a human readable reason.
type ExplanationService struct {
	courseNames map[string]string
	logger      *logrus.Logger
}

func NewExplanationService(courses []models.Course, logger *logrus.Logger) *ExplanationService {
	names := make(map[string]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}
	return &ExplanationService{courseNames: names, logger: logger}
}

// Confidence maps a blended score onto [0.1, 0.95], rounded to two decimals.
func (s *ExplanationService) Confidence(blended float64) float64 {
	confidence := blended * confidenceMultiplier
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}
	return math.Round(confidence*100) / 100
}

// Explain builds the reasoning string for one recommended course. Hybrid
// requests draw reasons from whichever strategies scored above their
// thresholds; single-strategy requests always state their angle.
func (s *ExplanationService) Explain(breakdown map[models.Strategy]float64, course models.Course, strategy models.Strategy) string {
	var reasons []string

	switch strategy {
	case models.StrategyHybrid:
		if breakdown[models.StrategySemantic] > semanticReasonThreshold {
			reasons = append(reasons, "closely related to courses you've completed")
		}
		if breakdown[models.StrategyPredictive] > predictiveReasonThreshold {
			reasons = append(reasons, "you're predicted to perform well in it")
		}
		if breakdown[models.StrategyCollaborative] > collaborativeReasonThreshold {
			reasons = append(reasons, "popular among students with a similar background")
		}
	case models.StrategySemantic:
		reasons = append(reasons, "a natural continuation of your learning path")
	case models.StrategyPredictive:
		reasons = append(reasons, "a good fit for your demonstrated performance")
	case models.StrategyCollaborative:
		reasons = append(reasons, "frequently taken by students like you")
	}

	if len(course.Prerequisites) > 0 {
		reasons = append(reasons, "it builds on "+s.prerequisiteNames(course.Prerequisites))
	}

	switch course.Difficulty {
	case models.DifficultyBeginner:
		reasons = append(reasons, "beginner-friendly")
	case models.DifficultyAdvanced:
		reasons = append(reasons, "a chance to take on advanced material")
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("Recommended based on %s analysis", strategy)
	}
	return "Recommended because it's " + strings.Join(reasons, " and ")
}

// prerequisiteNames resolves up to two prerequisite ids to course names,
// falling back to the raw id when the catalog does not know it.
func (s *ExplanationService) prerequisiteNames(ids []string) string {
	limit := len(ids)
	if limit > 2 {
		limit = 2
	}
	names := make([]string, 0, limit)
	for _, id := range ids[:limit] {
		if name, ok := s.courseNames[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	return strings.Join(names, ", ")
}
