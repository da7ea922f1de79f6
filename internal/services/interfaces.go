package services

import (
	"context"

	"github.com/stuvia/courserank/pkg/models"
)

// Embedder turns texts into embedding vectors, batch at a time. Satisfied by
// embedding.CachedEmbedder in production and by fakes in tests.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// PeerSource supplies candidate peer profiles for collaborative scoring.
// The caller owns where these come from; the core never persists them.
type PeerSource interface {
	Students(ctx context.Context) ([]models.StudentProfile, error)
}
