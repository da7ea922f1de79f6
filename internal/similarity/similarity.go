// Package similarity provides the vector math behind the semantic strategy:
// clamped cosine similarity and deterministic top-k ranking.
package similarity

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Cosine computes the cosine similarity of a and b, clamped to [0,1].
// Negative cosine values floor to 0: the domain treats "more different than
// average" the same as "unrelated", not as "opposite". A zero-magnitude
// vector on either side yields exactly 0.0, and mismatched or empty vectors
// are likewise scored 0 rather than treated as errors.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := floats.Dot(a, b) / (normA * normB)
	if sim < 0 {
		return 0.0
	}
	if sim > 1 {
		return 1.0
	}
	return sim
}

// Candidate pairs an identifier with its embedding.
type Candidate struct {
	ID     string
	Vector []float64
}

// Match is one ranked result.
type Match struct {
	ID    string
	Score float64
}

// TopK ranks candidates by similarity to query, descending. Ties break by
// candidate id ascending so rankings are deterministic. k may exceed the
// candidate count, in which case all candidates are returned.
func TopK(query []float64, candidates []Candidate, k int) []Match {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, Match{ID: c.ID, Score: Cosine(query, c.Vector)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}
