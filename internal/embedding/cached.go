package embedding

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/vectorcache"
)

// CachedEmbedder fronts a Provider with the persistent vector cache. Each
// text is looked up first; the misses are sent to the provider as one
// sub-batch (chunked only by the provider's batch limit) and written back.
// Results come out in input order. A provider failure fails the whole call:
// there are no partial-success semantics, cached texts are simply served
// from cache on the next attempt.
type CachedEmbedder struct {
	provider   Provider
	cache      *vectorcache.Cache
	batchLimit int
	logger     *logrus.Logger
}

func NewCachedEmbedder(provider Provider, cache *vectorcache.Cache, batchLimit int, logger *logrus.Logger) *CachedEmbedder {
	if batchLimit <= 0 {
		batchLimit = 64
	}
	return &CachedEmbedder{
		provider:   provider,
		cache:      cache,
		batchLimit: batchLimit,
		logger:     logger,
	}
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, len(texts))
	var missTexts []string
	var missIndices []int

	for i, text := range texts {
		key := vectorcache.Key(text)
		if v, ok := e.cache.Get(key); ok {
			vectors[i] = v
			continue
		}
		missTexts = append(missTexts, text)
		missIndices = append(missIndices, i)
	}

	e.logger.WithFields(logrus.Fields{
		"texts":  len(texts),
		"misses": len(missTexts),
	}).Debug("Embedding batch resolved against cache")

	for start := 0; start < len(missTexts); start += e.batchLimit {
		end := start + e.batchLimit
		if end > len(missTexts) {
			end = len(missTexts)
		}

		fetched, err := e.provider.EmbedBatch(ctx, missTexts[start:end])
		if err != nil {
			return nil, err
		}
		if len(fetched) != end-start {
			return nil, fmt.Errorf("provider returned %d vectors for %d texts",
				len(fetched), end-start)
		}

		for j, vector := range fetched {
			idx := missIndices[start+j]
			vectors[idx] = vector
			if err := e.cache.Put(vectorcache.Key(missTexts[start+j]), vector); err != nil {
				e.logger.WithError(err).Warn("Failed to cache embedding")
			}
		}
	}

	return vectors, nil
}
