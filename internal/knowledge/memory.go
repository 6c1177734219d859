package knowledge

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/claimsight/claimsight/internal/model"
)

type indexedChunk struct {
	chunk  model.Chunk
	vector []float32
}

// MemoryStore is an in-process knowledge store with cosine-similarity search.
// The default backend: each run gets an isolated store, so concurrent runs
// never contend. Rebuild excludes readers for its duration.
type MemoryStore struct {
	embedder Embedder

	mu     sync.RWMutex
	chunks []indexedChunk
}

// NewMemoryStore creates a memory store over the given embedder
func NewMemoryStore(embedder Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder}
}

// Rebuild discards any prior index and indexes the given chunks
func (s *MemoryStore) Rebuild(ctx context.Context, chunks []model.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return &IndexError{Op: "rebuild", Err: err}
	}

	indexed := make([]indexedChunk, len(chunks))
	for i, c := range chunks {
		indexed[i] = indexedChunk{chunk: c, vector: vectors[i]}
	}

	s.mu.Lock()
	s.chunks = indexed
	s.mu.Unlock()
	return nil
}

// Query returns the topK chunks most similar to text, best first
func (s *MemoryStore) Query(ctx context.Context, text string, topK int) ([]ScoredChunk, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, &IndexError{Op: "query", Err: err}
	}
	query := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]ScoredChunk, 0, len(s.chunks))
	for _, ic := range s.chunks {
		results = append(results, ScoredChunk{
			Chunk: ic.chunk,
			Score: cosine(query, ic.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// cosine computes cosine similarity between two vectors
func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
