// Package pipeline sequences the verification stages and owns the one-retry
// quality policy. Stages run strictly sequentially; each consumes the
// previous stage's output by value.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/claimsight/claimsight/internal/agent"
	"github.com/claimsight/claimsight/internal/ingest"
	"github.com/claimsight/claimsight/internal/knowledge"
	"github.com/claimsight/claimsight/internal/model"
	"github.com/claimsight/claimsight/internal/transcript"
)

// Stage names a pipeline state for progress reporting
type Stage string

const (
	StageIngesting  Stage = "Ingesting"
	StageIndexing   Stage = "Indexing"
	StageAcquiring  Stage = "Acquiring"
	StageExtracting Stage = "Extracting"
	StageVerifying  Stage = "Verifying"
	StageScoring    Stage = "Scoring"
	StageRetrying   Stage = "Retrying"
	StageAccepted   Stage = "Accepted"
)

// ProgressFunc receives a stage name, a completion percentage and a short
// human-readable message after each stage boundary.
type ProgressFunc func(stage Stage, percent int, message string)

// ErrNoContent is returned when zero videos produced usable transcript text.
// It short-circuits the run before any generative stage is invoked.
var ErrNoContent = errors.New("no transcript content found to process")

// RunInput is the finite, fully-specified input of one verification run
type RunInput struct {
	DocumentName string
	Document     []byte
	VideoURLs    []string
	Progress     ProgressFunc // optional
}

// Pipeline orchestrates the complete verification run
type Pipeline struct {
	ingestor   *ingest.Ingestor
	store      knowledge.Store
	fetcher    transcript.Fetcher
	extractor  *agent.Extractor
	verifier   *agent.Verifier
	assessor   *agent.Assessor
	threshold  int
	maxRetries int
	workers    int
}

// New creates a pipeline from its stage components. threshold is the accept
// score; maxRetries bounds the data-quality retry (the design fixes it at 1).
func New(ingestor *ingest.Ingestor, store knowledge.Store, fetcher transcript.Fetcher,
	extractor *agent.Extractor, verifier *agent.Verifier, assessor *agent.Assessor,
	threshold, maxRetries, transcriptWorkers int) *Pipeline {
	if threshold <= 0 {
		threshold = 50
	}
	if maxRetries < 0 {
		maxRetries = 1
	}
	if transcriptWorkers <= 0 {
		transcriptWorkers = 4
	}
	return &Pipeline{
		ingestor:   ingestor,
		store:      store,
		fetcher:    fetcher,
		extractor:  extractor,
		verifier:   verifier,
		assessor:   assessor,
		threshold:  threshold,
		maxRetries: maxRetries,
		workers:    transcriptWorkers,
	}
}

// Run executes one verification run. Any stage failure aborts the run and is
// surfaced as a single error; no partial results are returned. Cancellation
// is checked at stage boundaries only.
func (p *Pipeline) Run(ctx context.Context, input RunInput) (*model.PipelineResult, error) {
	progress := input.Progress
	if progress == nil {
		progress = func(Stage, int, string) {}
	}

	// 1. Ingest the source document. The longest-latency step when a
	// network parsing backend is configured.
	progress(StageIngesting, 10, "Parsing source document...")
	chunks, err := p.ingestor.Ingest(ctx, input.DocumentName, input.Document)
	if err != nil {
		return nil, fmt.Errorf("ingest document: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Full reindex of the knowledge store.
	progress(StageIndexing, 30, fmt.Sprintf("Indexing %d chunks...", len(chunks)))
	if err := p.store.Rebuild(ctx, chunks); err != nil {
		return nil, fmt.Errorf("rebuild knowledge store: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Acquire transcripts. Failing videos are skipped; the run aborts
	// only when nothing was acquired.
	progress(StageAcquiring, 50, fmt.Sprintf("Fetching %d video transcript(s)...", len(input.VideoURLs)))
	bundle, err := transcript.BuildBundle(ctx, p.fetcher, input.VideoURLs, p.workers)
	if err != nil {
		return nil, fmt.Errorf("acquire transcripts: %w", err)
	}
	for _, skipped := range bundle.Skipped {
		progress(StageAcquiring, 50, fmt.Sprintf("Skipped %s: %s", skipped.URL, skipped.Reason))
	}
	if bundle.IsEmpty() {
		return nil, ErrNoContent
	}

	// 4-6. Extract, verify, score. At most one additional cycle when the
	// quality gate scores below threshold; the second result is accepted
	// regardless of its score.
	var result *model.PipelineResult
	for cycle := 1; ; cycle++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress(StageExtracting, 80, "Analyzing transcript content...")
		analysis, err := p.extractor.Extract(ctx, bundle.Text)
		if err != nil {
			return nil, fmt.Errorf("extract claims: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress(StageVerifying, 90, "Cross-verifying with document...")
		report, err := p.verifier.Verify(ctx, analysis)
		if err != nil {
			return nil, fmt.Errorf("verify claims: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress(StageScoring, 95, "Checking response quality...")
		quality, err := p.assessor.Assess(ctx, analysis, report)
		if err != nil {
			return nil, fmt.Errorf("assess quality: %w", err)
		}

		result = &model.PipelineResult{
			Analysis: analysis,
			Report:   report,
			Quality:  quality,
			Cycles:   cycle,
		}

		if quality.Score >= p.threshold || cycle > p.maxRetries {
			break
		}
		progress(StageRetrying, 95, fmt.Sprintf("Low quality score (%d). Retrying...", quality.Score))
	}

	progress(StageAccepted, 100, "Analysis completed")
	return result, nil
}
