// Package knowledge indexes ingested chunks for semantic lookup and exposes
// a ranked similarity query to the verification stage. The index is rebuilt
// fully each run; there is no incremental update path.
package knowledge

import (
	"context"
	"fmt"

	"github.com/claimsight/claimsight/internal/model"
)

// ScoredChunk is a chunk returned from a similarity query
type ScoredChunk struct {
	Chunk model.Chunk
	Score float32
}

// Store is the knowledge store contract. Rebuild is idempotent and always
// discards prior content. Concurrent runs sharing one store must serialize
// Rebuild against Query; the memory store does this internally, the qdrant
// store relies on per-run collections.
type Store interface {
	Rebuild(ctx context.Context, chunks []model.Chunk) error
	Query(ctx context.Context, text string, topK int) ([]ScoredChunk, error)
}

// IndexError indicates the embedding or storage backend is unavailable.
// Fatal for the whole pipeline run: there is no retry without re-ingestion.
type IndexError struct {
	Op  string // "rebuild" or "query"
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("knowledge store %s: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}
