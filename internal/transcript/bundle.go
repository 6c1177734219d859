package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimsight/claimsight/internal/model"
	"github.com/claimsight/claimsight/internal/worker"
)

// Fetcher is the single-video acquisition contract consumed by BuildBundle.
// *Acquirer satisfies it; tests substitute deterministic stubs.
type Fetcher interface {
	Acquire(ctx context.Context, rawURL string) (model.Transcript, error)
}

// fetchJob fetches one video's transcript for the ordered pool
type fetchJob struct {
	fetcher Fetcher
	url     string
}

type fetchResult struct {
	transcript model.Transcript
	err        error
}

func (r fetchResult) GetError() error { return r.err }

func (j fetchJob) Execute(ctx context.Context) worker.Result {
	t, err := j.fetcher.Acquire(ctx, j.url)
	return fetchResult{transcript: t, err: err}
}

// BuildBundle fetches transcripts for all video references and concatenates
// them, in input order, into one text blob. Fetches run concurrently but the
// bundle always reflects the order of urls, not completion order.
//
// Policy for partial failure: skip-and-continue. A video whose transcript
// cannot be acquired is recorded in Skipped and the rest proceed; the caller
// decides what an entirely empty bundle means.
func BuildBundle(ctx context.Context, fetcher Fetcher, urls []string, workers int) (model.TranscriptBundle, error) {
	bundle := model.TranscriptBundle{}
	if len(urls) == 0 {
		return bundle, nil
	}

	jobs := make([]worker.Job, len(urls))
	for i, u := range urls {
		jobs[i] = fetchJob{fetcher: fetcher, url: u}
	}

	pool := worker.NewOrderedPool(workers)
	results := pool.Run(ctx, jobs)

	if err := ctx.Err(); err != nil {
		return bundle, fmt.Errorf("transcript acquisition cancelled: %w", err)
	}

	var sb strings.Builder
	for i, r := range results {
		fr := r.(fetchResult)
		if fr.err != nil {
			bundle.Skipped = append(bundle.Skipped, model.SkippedVideo{
				URL:    urls[i],
				Reason: fr.err.Error(),
			})
			continue
		}
		text := strings.TrimSpace(fr.transcript.Text())
		if text == "" {
			bundle.Skipped = append(bundle.Skipped, model.SkippedVideo{
				URL:    urls[i],
				Reason: "transcript contained no text",
			})
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
		bundle.Videos = append(bundle.Videos, urls[i])
	}

	bundle.Text = sb.String()
	return bundle, nil
}
