package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_SelfSimilarityIsOne(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0},
		{0.3, -0.7, 0.2},
		{5, 5, 5, 5},
	}
	for _, v := range vectors {
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-12)
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float64{0.2, 0.5, -0.1}
	b := []float64{-0.4, 0.9, 0.3}

	ab := Cosine(a, b)
	ba := Cosine(b, a)

	assert.Equal(t, ab, ba)
	assert.GreaterOrEqual(t, ab, 0.0)
	assert.LessOrEqual(t, ab, 1.0)
}

func TestCosine_ZeroVector(t *testing.T) {
	zero := []float64{0, 0, 0}
	v := []float64{1, 2, 3}

	assert.Equal(t, 0.0, Cosine(zero, v))
	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))
}

func TestCosine_NegativeClampsToZero(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{-1, 0}
	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCosine_MismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, Cosine(nil, []float64{1}))
}

func TestTopK_RanksDescending(t *testing.T) {
	query := []float64{1, 0}
	candidates := []Candidate{
		{ID: "orthogonal", Vector: []float64{0, 1}},
		{ID: "identical", Vector: []float64{2, 0}},
		{ID: "diagonal", Vector: []float64{1, 1}},
	}

	matches := TopK(query, candidates, 3)
	assert.Equal(t, []string{"identical", "diagonal", "orthogonal"},
		[]string{matches[0].ID, matches[1].ID, matches[2].ID})
}

func TestTopK_TiesBreakByIDAscending(t *testing.T) {
	query := []float64{1, 0}
	candidates := []Candidate{
		{ID: "b", Vector: []float64{3, 0}},
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "c", Vector: []float64{2, 0}},
	}

	matches := TopK(query, candidates, 3)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.Equal(t, "c", matches[2].ID)
}

func TestTopK_KExceedsCandidates(t *testing.T) {
	query := []float64{1}
	candidates := []Candidate{{ID: "only", Vector: []float64{1}}}

	matches := TopK(query, candidates, 10)
	assert.Len(t, matches, 1)
}

func TestTopK_NonPositiveK(t *testing.T) {
	assert.Nil(t, TopK([]float64{1}, []Candidate{{ID: "x", Vector: []float64{1}}}, 0))
}
