package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/claimsight/claimsight/internal/llm"
	"github.com/claimsight/claimsight/internal/model"
)

// Assessor scores an (analysis, report) pair for factual consistency and
// completeness. It is the quality gate: the score decides accept vs retry.
type Assessor struct {
	provider llm.Provider
}

// NewAssessor creates a quality assessment agent
func NewAssessor(provider llm.Provider) *Assessor {
	return &Assessor{provider: provider}
}

// assessPayload is the input handed to the quality agent
type assessPayload struct {
	TranscriptAnalysis string `json:"transcript_analysis"`
	VerificationReport string `json:"verification_report"`
}

// Assess invokes the quality agent and parses its strict JSON verdict.
// Parsing is best-effort: malformed output defaults the score to 0 (worst
// case, forcing a retry) with a logged warning. This is a deliberate
// fail-safe; a parse failure never aborts the run.
func (a *Assessor) Assess(ctx context.Context, analysis model.ClaimAnalysis, report model.VerificationReport) (model.QualityAssessment, error) {
	payload, err := json.Marshal(assessPayload{
		TranscriptAnalysis: analysis.Content,
		VerificationReport: report.Content,
	})
	if err != nil {
		return model.QualityAssessment{}, &GenerationError{Agent: "assessor", Err: err}
	}

	raw, err := a.provider.Invoke(ctx, assessorInstructions, string(payload))
	if err != nil {
		return model.QualityAssessment{}, &GenerationError{Agent: "assessor", Err: err}
	}

	assessment, parseErr := ParseAssessment(raw)
	if parseErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: malformed quality output, defaulting score to 0: %v\n", parseErr)
		return model.QualityAssessment{Score: 0, Issues: raw}, nil
	}

	return assessment, nil
}

// ParseAssessment parses the quality agent's JSON verdict. Models sometimes
// wrap the object in markdown fences or prose, so the first balanced JSON
// object in the text is also accepted.
func ParseAssessment(raw string) (model.QualityAssessment, error) {
	var qa model.QualityAssessment

	candidate := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(candidate), &qa); err == nil {
		return clamp(qa), nil
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return model.QualityAssessment{}, fmt.Errorf("no JSON object in quality output")
	}

	if err := json.Unmarshal([]byte(candidate[start:end+1]), &qa); err != nil {
		return model.QualityAssessment{}, fmt.Errorf("decode quality output: %w", err)
	}
	return clamp(qa), nil
}

// clamp bounds the score to 0-100
func clamp(qa model.QualityAssessment) model.QualityAssessment {
	if qa.Score < 0 {
		qa.Score = 0
	}
	if qa.Score > 100 {
		qa.Score = 100
	}
	return qa
}
