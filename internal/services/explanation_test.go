package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stuvia/courserank/pkg/models"
)

func explanationFixture() *ExplanationService {
	return NewExplanationService([]models.Course{
		{ID: "python-fundamentals", Name: "Python Fundamentals"},
		{ID: "data-structures", Name: "Data Structures"},
	}, testLogger())
}

func TestConfidence_Bounds(t *testing.T) {
	svc := explanationFixture()

	tests := []struct {
		name    string
		blended float64
		want    float64
	}{
		{"zero score floors at 0.1", 0.0, 0.1},
		{"perfect score caps at 0.95", 1.0, 0.95},
		{"midrange scales by 1.2", 0.5, 0.6},
		{"just under the cap", 0.79, 0.95},
		{"small score floors", 0.05, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, svc.Confidence(tt.blended), 1e-9)
		})
	}
}

func TestExplain_HybridThresholds(t *testing.T) {
	svc := explanationFixture()
	course := models.Course{ID: "x", Name: "X", Difficulty: models.DifficultyIntermediate}

	breakdown := map[models.Strategy]float64{
		models.StrategySemantic:      0.8,
		models.StrategyPredictive:    0.9,
		models.StrategyCollaborative: 0.6,
	}
	reason := svc.Explain(breakdown, course, models.StrategyHybrid)
	assert.Contains(t, reason, "courses you've completed")
	assert.Contains(t, reason, "predicted to perform well")
	assert.Contains(t, reason, "similar background")

	// Scores at the threshold do not earn a mention.
	atThreshold := map[models.Strategy]float64{
		models.StrategySemantic:      0.7,
		models.StrategyPredictive:    0.75,
		models.StrategyCollaborative: 0.5,
	}
	reason = svc.Explain(atThreshold, course, models.StrategyHybrid)
	assert.Equal(t, "Recommended based on hybrid analysis", reason)
}

func TestExplain_PrerequisitesResolvedToNames(t *testing.T) {
	svc := explanationFixture()
	course := models.Course{
		ID:            "advanced-python",
		Prerequisites: []string{"python-fundamentals", "data-structures", "unknown-course"},
		Difficulty:    models.DifficultyIntermediate,
	}

	reason := svc.Explain(nil, course, models.StrategyHybrid)
	assert.Contains(t, reason, "builds on Python Fundamentals, Data Structures")
	assert.NotContains(t, reason, "unknown-course")
}

func TestExplain_SingleStrategyAlwaysStatesAngle(t *testing.T) {
	svc := explanationFixture()
	course := models.Course{ID: "x", Difficulty: models.DifficultyIntermediate}

	assert.Contains(t, svc.Explain(nil, course, models.StrategySemantic), "learning path")
	assert.Contains(t, svc.Explain(nil, course, models.StrategyPredictive), "performance")
	assert.Contains(t, svc.Explain(nil, course, models.StrategyCollaborative), "students like you")
}

func TestExplain_DifficultyPhrases(t *testing.T) {
	svc := explanationFixture()

	beginner := models.Course{ID: "b", Difficulty: models.DifficultyBeginner}
	assert.Contains(t, svc.Explain(nil, beginner, models.StrategyHybrid), "beginner-friendly")

	advanced := models.Course{ID: "a", Difficulty: models.DifficultyAdvanced}
	assert.Contains(t, svc.Explain(nil, advanced, models.StrategyHybrid), "advanced material")
}
