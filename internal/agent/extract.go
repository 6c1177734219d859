// Package agent holds the generative stages of the verification pipeline:
// claim extraction, cross-verification against the knowledge store, and the
// quality gate. Each agent wraps a provider with fixed instructions so tests
// can substitute deterministic stubs.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimsight/claimsight/internal/llm"
	"github.com/claimsight/claimsight/internal/model"
)

// Extractor produces a structured claim analysis from transcript text
type Extractor struct {
	provider llm.Provider
}

// NewExtractor creates a claim extraction agent
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract analyzes the transcript bundle text and returns the claim analysis.
// The output structure is deterministic (category headings); the content is
// not — it depends on the underlying generative model.
func (e *Extractor) Extract(ctx context.Context, transcriptText string) (model.ClaimAnalysis, error) {
	if strings.TrimSpace(transcriptText) == "" {
		return model.ClaimAnalysis{}, &GenerationError{
			Agent: "extractor",
			Err:   fmt.Errorf("empty transcript text"),
		}
	}

	content, err := e.provider.Invoke(ctx, extractorInstructions, transcriptText)
	if err != nil {
		return model.ClaimAnalysis{}, &GenerationError{Agent: "extractor", Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return model.ClaimAnalysis{}, &GenerationError{
			Agent: "extractor",
			Err:   fmt.Errorf("model returned empty analysis"),
		}
	}

	return model.ClaimAnalysis{Content: content}, nil
}
