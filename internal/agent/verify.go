package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimsight/claimsight/internal/knowledge"
	"github.com/claimsight/claimsight/internal/llm"
	"github.com/claimsight/claimsight/internal/model"
)

// claimCategories are the fixed analysis categories; each one gets at least
// one retrieval query against the knowledge store.
var claimCategories = []string{
	"company vision and mission statements",
	"annual turnover revenue figures financial metrics",
	"IPO listing date exchange offering size valuation",
	"forward-looking statements future plans projections expansion",
	"market position competitive advantages",
}

// maxAnalysisQueries caps the per-claim follow-up queries derived from the
// analysis text so a verbose analysis cannot flood the store.
const maxAnalysisQueries = 12

// Verifier cross-checks a claim analysis against the knowledge store
type Verifier struct {
	provider llm.Provider
	store    knowledge.Store
	topK     int
}

// NewVerifier creates a verification agent over the given store
func NewVerifier(provider llm.Provider, store knowledge.Store, topK int) *Verifier {
	if topK <= 0 {
		topK = 5
	}
	return &Verifier{provider: provider, store: store, topK: topK}
}

// Verify retrieves evidence for every claim category plus the salient claim
// lines of the analysis, then asks the model to compare claims against that
// evidence. Store failures propagate as *knowledge.IndexError (fatal);
// model failures as *GenerationError.
func (v *Verifier) Verify(ctx context.Context, analysis model.ClaimAnalysis) (model.VerificationReport, error) {
	if strings.TrimSpace(analysis.Content) == "" {
		return model.VerificationReport{}, &GenerationError{
			Agent: "verifier",
			Err:   fmt.Errorf("empty claim analysis"),
		}
	}

	queries := append([]string{}, claimCategories...)
	queries = append(queries, claimQueries(analysis.Content)...)

	seen := make(map[string]bool)
	var evidence []knowledge.ScoredChunk
	for _, q := range queries {
		hits, err := v.store.Query(ctx, q, v.topK)
		if err != nil {
			return model.VerificationReport{}, err
		}
		for _, hit := range hits {
			if seen[hit.Chunk.ID] {
				continue
			}
			seen[hit.Chunk.ID] = true
			evidence = append(evidence, hit)
		}
	}

	payload := buildVerifyPayload(analysis.Content, evidence)

	content, err := v.provider.Invoke(ctx, verifierInstructions, payload)
	if err != nil {
		return model.VerificationReport{}, &GenerationError{Agent: "verifier", Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return model.VerificationReport{}, &GenerationError{
			Agent: "verifier",
			Err:   fmt.Errorf("model returned empty report"),
		}
	}

	return model.VerificationReport{Content: content, Queries: len(queries)}, nil
}

// claimQueries pulls salient claim lines (bullets and headings) out of the
// analysis text to use as retrieval queries.
func claimQueries(analysisContent string) []string {
	var queries []string
	for _, line := range strings.Split(analysisContent, "\n") {
		line = strings.TrimSpace(line)
		trimmed := strings.TrimLeft(line, "-*# ")
		if trimmed == line || len(trimmed) < 20 {
			continue
		}
		if strings.Contains(strings.ToLower(trimmed), "not provided in transcript") {
			continue
		}
		queries = append(queries, trimmed)
		if len(queries) >= maxAnalysisQueries {
			break
		}
	}
	return queries
}

// buildVerifyPayload assembles the claim analysis and numbered evidence
// excerpts into the verifier's input.
func buildVerifyPayload(analysisContent string, evidence []knowledge.ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString("CLAIMS EXTRACTED FROM VIDEO TRANSCRIPTS:\n\n")
	sb.WriteString(analysisContent)
	sb.WriteString("\n\nPROSPECTUS EVIDENCE EXCERPTS:\n")

	if len(evidence) == 0 {
		sb.WriteString("\n(No relevant excerpts were retrieved from the prospectus.)\n")
		return sb.String()
	}

	for i, hit := range evidence {
		fmt.Fprintf(&sb, "\n[Excerpt %d] (source: %s, relevance: %.2f)\n%s\n",
			i+1, hit.Chunk.Source, hit.Score, hit.Chunk.Content)
	}
	return sb.String()
}
