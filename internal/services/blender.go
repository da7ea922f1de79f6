package services

import (
	"sort"

	"github.com/stuvia/courserank/pkg/models"
)

// DefaultWeights are the blend weights when all three strategies report.
// They sum to exactly 1.0.
func DefaultWeights() map[models.Strategy]float64 {
	return map[models.Strategy]float64{
		models.StrategySemantic:      0.40,
		models.StrategyPredictive:    0.35,
		models.StrategyCollaborative: 0.25,
	}
}

// Blend combines per-strategy score maps into one weighted score per course.
// A course missing from a strategy's map contributes weight x 0 for that
// strategy; weights are never renormalized. Strategies are accumulated in a
// fixed order: float addition is not associative, so map-order iteration
// would give bit-different sums across calls.
func Blend(scores map[models.Strategy]map[string]float64, weights map[models.Strategy]float64) map[string]float64 {
	strategies := make([]models.Strategy, 0, len(scores))
	for strategy := range scores {
		if _, ok := weights[strategy]; ok {
			strategies = append(strategies, strategy)
		}
	}
	sort.Slice(strategies, func(i, j int) bool { return strategies[i] < strategies[j] })

	blended := make(map[string]float64)
	for _, strategy := range strategies {
		weight := weights[strategy]
		for courseID, score := range scores[strategy] {
			blended[courseID] += weight * score
		}
	}

	return blended
}
