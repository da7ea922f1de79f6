package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuvia/courserank/internal/predictor"
	"github.com/stuvia/courserank/pkg/models"
)

var scorerCatalog = []models.Course{
	{
		ID:          "python-fundamentals",
		Name:        "Python Fundamentals",
		Description: "Learn Python programming basics",
		Difficulty:  models.DifficultyBeginner,
		Category:    "programming",
	},
	{
		ID:            "advanced-python",
		Name:          "Advanced Python",
		Description:   "Decorators, metaclasses, async programming",
		Prerequisites: []string{"python-fundamentals"},
		Difficulty:    models.DifficultyAdvanced,
		Category:      "programming",
	},
	{
		ID:          "art-history",
		Name:        "Art History",
		Description: "From the Renaissance to modern art",
		Difficulty:  models.DifficultyIntermediate,
		Category:    "humanities",
	},
}

func newScorers(embedder Embedder, pred predictor.Predictor, peers *PeerFinder) *ScorerService {
	return NewScorerService(embedder, pred, peers, nil, testLogger())
}

func TestSemanticScores_ColdStartRanksByDifficulty(t *testing.T) {
	embedder := &fakeEmbedder{}
	scorers := newScorers(embedder, nil, nil)
	student := models.NewStudentProfile("new-student", nil, nil, nil)

	records, err := scorers.SemanticScores(context.Background(), student, scorerCatalog, courseMap(scorerCatalog))
	require.NoError(t, err)

	assert.Equal(t, 1.0, records["python-fundamentals"].Score)
	assert.Equal(t, 0.7, records["art-history"].Score)
	assert.Equal(t, 0.4, records["advanced-python"].Score)

	// Cold start never touches the provider.
	assert.Empty(t, embedder.calls)
}

func TestSemanticScores_RanksBySimilarityToHistory(t *testing.T) {
	completed := scorerCatalog[0]
	candidates := scorerCatalog[1:]

	embedder := &fakeEmbedder{vectors: map[string][]float64{
		completed.RichText():     {1, 0},
		candidates[0].RichText(): {0.9, 0.1},
		candidates[1].RichText(): {0, 1},
	}}
	scorers := newScorers(embedder, nil, nil)
	student := models.NewStudentProfile("s1", []string{"python-fundamentals"}, nil, nil)

	records, err := scorers.SemanticScores(context.Background(), student, candidates, courseMap(scorerCatalog))
	require.NoError(t, err)

	assert.Greater(t, records["advanced-python"].Score, records["art-history"].Score)
	assert.InDelta(t, 0.0, records["art-history"].Score, 1e-9)

	// One batch covers history and candidates.
	require.Len(t, embedder.calls, 1)
	assert.Len(t, embedder.calls[0], 3)
}

func TestSemanticScores_UnknownCompletedIDsAreSkipped(t *testing.T) {
	embedder := &fakeEmbedder{}
	scorers := newScorers(embedder, nil, nil)
	student := models.NewStudentProfile("s1", []string{"retired-course"}, nil, nil)

	records, err := scorers.SemanticScores(context.Background(), student, scorerCatalog, courseMap(scorerCatalog))
	require.NoError(t, err)

	// No resolvable history falls back to cold start.
	assert.Equal(t, 1.0, records["python-fundamentals"].Score)
	assert.Empty(t, embedder.calls)
}

func TestSemanticScores_ProviderFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: assert.AnError}
	scorers := newScorers(embedder, nil, nil)
	student := models.NewStudentProfile("s1", []string{"python-fundamentals"}, nil, nil)

	_, err := scorers.SemanticScores(context.Background(), student, scorerCatalog[1:], courseMap(scorerCatalog))
	assert.Error(t, err)
}

func TestPredictiveScores_FailureFallsBackToNeutral(t *testing.T) {
	scorers := newScorers(nil, failingPredictor{}, nil)
	student := models.NewStudentProfile("s1", nil, nil, nil)

	records := scorers.PredictiveScores(context.Background(), student, scorerCatalog)

	require.Len(t, records, len(scorerCatalog))
	for _, record := range records {
		assert.Equal(t, 0.5, record.Score)
		assert.Equal(t, "prediction unavailable", record.Note)
	}
}

func TestPredictiveScores_NilPredictorIsNeutral(t *testing.T) {
	scorers := newScorers(nil, nil, nil)
	student := models.NewStudentProfile("s1", nil, nil, nil)

	records := scorers.PredictiveScores(context.Background(), student, scorerCatalog)
	for _, record := range records {
		assert.Equal(t, 0.5, record.Score)
	}
}

func TestPredictiveScores_HeuristicGradesNormalized(t *testing.T) {
	scorers := newScorers(nil, predictor.NewHeuristic(), nil)
	student := models.NewStudentProfile("s1", nil, nil, map[string]float64{"a": 90, "b": 80})

	records := scorers.PredictiveScores(context.Background(), student, scorerCatalog)

	// Average 85: beginner 90, advanced 80, intermediate 85.
	assert.InDelta(t, 0.90, records["python-fundamentals"].Score, 1e-9)
	assert.InDelta(t, 0.80, records["advanced-python"].Score, 1e-9)
	assert.InDelta(t, 0.85, records["art-history"].Score, 1e-9)
}

func TestCollaborativeScores_NoPeersIsNeutral(t *testing.T) {
	scorers := newScorers(nil, nil, NewPeerFinder(nil, 0.2, 10, testLogger()))
	student := models.NewStudentProfile("s1", []string{"python-fundamentals"}, nil, nil)

	records := scorers.CollaborativeScores(context.Background(), student, scorerCatalog[1:])

	for _, record := range records {
		assert.Equal(t, 0.5, record.Score)
		assert.Equal(t, "no similar students found", record.Note)
	}
}

func TestCollaborativeScores_NormalizedByMostPopular(t *testing.T) {
	source := &staticPeerSource{students: []models.StudentProfile{
		{ID: "p1", CompletedCourseIDs: []string{"python-fundamentals", "advanced-python"}},
		{ID: "p2", CompletedCourseIDs: []string{"python-fundamentals", "advanced-python"}},
		{ID: "p3", CompletedCourseIDs: []string{"python-fundamentals", "art-history"}},
	}}
	scorers := newScorers(nil, nil, NewPeerFinder(source, 0.2, 10, testLogger()))
	student := models.NewStudentProfile("s1", []string{"python-fundamentals"}, nil, nil)

	records := scorers.CollaborativeScores(context.Background(), student, scorerCatalog[1:])

	assert.Equal(t, 1.0, records["advanced-python"].Score)
	assert.InDelta(t, 0.5, records["art-history"].Score, 1e-9)
}

func TestCollaborativeScores_PeerLookupErrorIsNeutral(t *testing.T) {
	source := &staticPeerSource{err: assert.AnError}
	scorers := newScorers(nil, nil, NewPeerFinder(source, 0.2, 10, testLogger()))
	student := models.NewStudentProfile("s1", []string{"python-fundamentals"}, nil, nil)

	records := scorers.CollaborativeScores(context.Background(), student, scorerCatalog[1:])
	for _, record := range records {
		assert.Equal(t, 0.5, record.Score)
	}
}
