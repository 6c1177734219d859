package knowledge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/claimsight/claimsight/internal/model"
)

func testChunks() []model.Chunk {
	return []model.Chunk{
		{ID: "c1", Content: "annual revenue reached 500 crore rupees in the last fiscal year", Source: "prospectus", Index: 0},
		{ID: "c2", Content: "the company operates twelve manufacturing plants across three states", Source: "prospectus", Index: 1},
		{ID: "c3", Content: "promoter shareholding will fall to 65 percent after the offering", Source: "prospectus", Index: 2},
	}
}

func TestMemoryStore_QueryFindsRelevantChunk(t *testing.T) {
	store := NewMemoryStore(NewLexicalEmbedder(256))
	if err := store.Rebuild(context.Background(), testChunks()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	results, err := store.Query(context.Background(), "what was the annual revenue in crore rupees", 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ID != "c1" {
		t.Errorf("Expected revenue chunk first, got %s (score %v)", results[0].Chunk.ID, results[0].Score)
	}
	if results[0].Score < results[1].Score {
		t.Error("Expected results ordered best first")
	}
}

func TestMemoryStore_RebuildReplacesIndex(t *testing.T) {
	store := NewMemoryStore(NewLexicalEmbedder(256))
	if err := store.Rebuild(context.Background(), testChunks()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	replacement := []model.Chunk{
		{ID: "n1", Content: "a completely different document about dairy exports", Source: "prospectus", Index: 0},
	}
	if err := store.Rebuild(context.Background(), replacement); err != nil {
		t.Fatalf("Second rebuild failed: %v", err)
	}

	results, err := store.Query(context.Background(), "annual revenue crore", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "n1" {
		t.Errorf("Expected old index discarded, got %v", results)
	}
}

func TestMemoryStore_TopKCapsResults(t *testing.T) {
	store := NewMemoryStore(NewLexicalEmbedder(256))
	if err := store.Rebuild(context.Background(), testChunks()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	results, err := store.Query(context.Background(), "company", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected topK to cap results at 1, got %d", len(results))
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding backend down")
}
func (failingEmbedder) Dimensions() int { return 8 }

func TestMemoryStore_EmbedderFailure(t *testing.T) {
	store := NewMemoryStore(failingEmbedder{})

	err := store.Rebuild(context.Background(), testChunks())
	var idxErr *IndexError
	if !errors.As(err, &idxErr) || idxErr.Op != "rebuild" {
		t.Fatalf("Expected rebuild IndexError, got %v", err)
	}

	_, err = store.Query(context.Background(), "anything", 5)
	if !errors.As(err, &idxErr) || idxErr.Op != "query" {
		t.Fatalf("Expected query IndexError, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	if got := cosine(a, a); got < 0.999 {
		t.Errorf("Expected identical vectors to score ~1, got %v", got)
	}
	if got := cosine(a, []float32{0, 1, 0}); got != 0 {
		t.Errorf("Expected orthogonal vectors to score 0, got %v", got)
	}
	if got := cosine(a, []float32{0, 0}); got != 0 {
		t.Errorf("Expected mismatched lengths to score 0, got %v", got)
	}
}
