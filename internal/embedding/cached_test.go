package embedding

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuvia/courserank/internal/vectorcache"
)

// fakeProvider returns a fixed vector per text and records every call.
type fakeProvider struct {
	vectors map[string][]float64
	calls   [][]string
	err     error
}

func (f *fakeProvider) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = f.vectors[t]
	}
	return out, nil
}

func (f *fakeProvider) Dimensions() int { return 2 }

func newTestCache(t *testing.T) *vectorcache.Cache {
	t.Helper()
	return vectorcache.New(filepath.Join(t.TempDir(), "cache.json"), testLogger())
}

func TestCachedEmbedder_SingleProviderCallForMisses(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float64{
		"a": {1, 0}, "b": {0, 1}, "c": {1, 1},
	}}
	embedder := NewCachedEmbedder(provider, newTestCache(t), 64, testLogger())

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, []string{"a", "b", "c"}, provider.calls[0])
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}, {1, 1}}, vectors)
}

func TestCachedEmbedder_FullyCachedSkipsProvider(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float64{"a": {1, 0}, "b": {0, 1}}}
	cache := newTestCache(t)
	embedder := NewCachedEmbedder(provider, cache, 64, testLogger())

	_, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, provider.calls, 1)

	// Second round: everything is cached, the provider stays idle.
	vectors, err := embedder.EmbedBatch(context.Background(), []string{"b", "a"})
	require.NoError(t, err)
	assert.Len(t, provider.calls, 1)
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, vectors)
}

func TestCachedEmbedder_PreservesOrderWithInterleavedHits(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float64{
		"hit": {9, 9}, "miss1": {1, 0}, "miss2": {0, 1},
	}}
	cache := newTestCache(t)
	require.NoError(t, cache.Put(vectorcache.Key("hit"), []float64{9, 9}))

	embedder := NewCachedEmbedder(provider, cache, 64, testLogger())

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"miss1", "hit", "miss2"})
	require.NoError(t, err)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, []string{"miss1", "miss2"}, provider.calls[0])
	assert.Equal(t, [][]float64{{1, 0}, {9, 9}, {0, 1}}, vectors)
}

func TestCachedEmbedder_ProviderFailureFailsBatch(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	embedder := NewCachedEmbedder(provider, newTestCache(t), 64, testLogger())

	_, err := embedder.EmbedBatch(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestCachedEmbedder_ChunksByBatchLimit(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float64{
		"a": {1, 0}, "b": {0, 1}, "c": {1, 1},
	}}
	embedder := NewCachedEmbedder(provider, newTestCache(t), 2, testLogger())

	_, err := embedder.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, provider.calls, 2)
	assert.Equal(t, []string{"a", "b"}, provider.calls[0])
	assert.Equal(t, []string{"c"}, provider.calls[1])
}
