package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/claimsight/claimsight/internal/cache"
)

// Embedder maps text to vectors. Implementations must be deterministic in
// dimensionality: every vector they return has Dimensions() entries.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// OpenAIEmbedder embeds text via the OpenAI embeddings API
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dims   int
	cache  cache.Cache // nil when caching disabled
}

// NewOpenAIEmbedder creates an embedder for the given model
func NewOpenAIEmbedder(apiKey, baseURL, model string, c cache.Cache) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for embeddings")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  openai.EmbeddingModel(model),
		dims:   1536,
		cache:  c,
	}, nil
}

// Dimensions returns the embedding vector size
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dims
}

// Embed embeds all texts, serving repeats from the cache where possible
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var misses []string
	var missIdx []int
	for i, text := range texts {
		if v, ok := e.cached(text); ok {
			vectors[i] = v
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}

	if len(misses) == 0 {
		return vectors, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: misses,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(misses) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(misses))
	}

	for j, d := range resp.Data {
		vectors[missIdx[j]] = d.Embedding
		e.store(misses[j], d.Embedding)
	}

	return vectors, nil
}

func (e *OpenAIEmbedder) cached(text string) ([]float32, bool) {
	if e.cache == nil {
		return nil, false
	}
	data, found := e.cache.Get(cache.Key("embed:"+string(e.model), text))
	if !found {
		return nil, false
	}
	var v []float32
	if err := json.Unmarshal(data, &v); err != nil || len(v) != e.dims {
		return nil, false
	}
	return v, true
}

func (e *OpenAIEmbedder) store(text string, v []float32) {
	if e.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = e.cache.Set(cache.Key("embed:"+string(e.model), text), data, 0)
	}
}

// LexicalEmbedder is a deterministic, offline embedder: hashed bag-of-words
// over a fixed vector size. Similar wording lands in similar buckets, which
// is enough for exact and near-exact retrieval without a network backend.
type LexicalEmbedder struct {
	dims int
}

// NewLexicalEmbedder creates a lexical embedder with the given vector size
func NewLexicalEmbedder(dims int) *LexicalEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &LexicalEmbedder{dims: dims}
}

// Dimensions returns the embedding vector size
func (e *LexicalEmbedder) Dimensions() int {
	return e.dims
}

// Embed hashes lowercased tokens into buckets and L2-normalizes the result
func (e *LexicalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, e.dims)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			token = strings.Trim(token, ".,;:!?()[]\"'")
			if token == "" {
				continue
			}
			h := fnv.New32a()
			_, _ = h.Write([]byte(token))
			v[h.Sum32()%uint32(e.dims)]++
		}

		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if norm > 0 {
			scale := float32(1 / math.Sqrt(norm))
			for j := range v {
				v[j] *= scale
			}
		}
		vectors[i] = v
	}
	return vectors, nil
}
