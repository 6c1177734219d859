package transcript

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/claimsight/claimsight/internal/model"
)

// stubFetcher maps URLs to canned transcripts or errors, with optional
// per-URL delay to exercise out-of-order completion.
type stubFetcher struct {
	transcripts map[string]model.Transcript
	errs        map[string]error
	delays      map[string]time.Duration
}

func (f *stubFetcher) Acquire(ctx context.Context, rawURL string) (model.Transcript, error) {
	if d, ok := f.delays[rawURL]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return model.Transcript{}, ctx.Err()
		}
	}
	if err, ok := f.errs[rawURL]; ok {
		return model.Transcript{}, err
	}
	return f.transcripts[rawURL], nil
}

func segs(text string) []model.Segment {
	return []model.Segment{{Text: text, Start: 0}}
}

func TestBuildBundle_PreservesInputOrder(t *testing.T) {
	// The first video takes longest, yet must come first in the bundle.
	fetcher := &stubFetcher{
		transcripts: map[string]model.Transcript{
			"v1": {VideoID: "v1", Segments: segs("first transcript")},
			"v2": {VideoID: "v2", Segments: segs("second transcript")},
			"v3": {VideoID: "v3", Segments: segs("third transcript")},
		},
		delays: map[string]time.Duration{
			"v1": 30 * time.Millisecond,
			"v2": 10 * time.Millisecond,
		},
	}

	bundle, err := BuildBundle(context.Background(), fetcher, []string{"v1", "v2", "v3"}, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "first transcript\n\nsecond transcript\n\nthird transcript\n\n"
	if bundle.Text != want {
		t.Errorf("Expected ordered text %q, got %q", want, bundle.Text)
	}
	if len(bundle.Videos) != 3 {
		t.Errorf("Expected 3 videos in bundle, got %d", len(bundle.Videos))
	}
	if len(bundle.Skipped) != 0 {
		t.Errorf("Expected no skipped videos, got %v", bundle.Skipped)
	}
}

func TestBuildBundle_SkipsFailedVideos(t *testing.T) {
	fetcher := &stubFetcher{
		transcripts: map[string]model.Transcript{
			"good": {VideoID: "good", Segments: segs("usable transcript text")},
		},
		errs: map[string]error{
			"bad": &AcquisitionError{VideoID: "bad", Err: fmt.Errorf("captions disabled")},
		},
	}

	bundle, err := BuildBundle(context.Background(), fetcher, []string{"bad", "good"}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(bundle.Skipped) != 1 || bundle.Skipped[0].URL != "bad" {
		t.Fatalf("Expected 'bad' skipped, got %v", bundle.Skipped)
	}
	if !strings.Contains(bundle.Skipped[0].Reason, "captions disabled") {
		t.Errorf("Expected skip reason to carry the cause, got %q", bundle.Skipped[0].Reason)
	}
	if bundle.IsEmpty() {
		t.Error("Expected bundle to keep the surviving transcript")
	}
	if len(bundle.Videos) != 1 || bundle.Videos[0] != "good" {
		t.Errorf("Expected only 'good' in videos, got %v", bundle.Videos)
	}
}

func TestBuildBundle_AllVideosFail(t *testing.T) {
	fetcher := &stubFetcher{
		errs: map[string]error{
			"v1": fmt.Errorf("network down"),
			"v2": fmt.Errorf("network down"),
		},
	}

	bundle, err := BuildBundle(context.Background(), fetcher, []string{"v1", "v2"}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bundle.IsEmpty() {
		t.Errorf("Expected empty bundle, got %q", bundle.Text)
	}
	if len(bundle.Skipped) != 2 {
		t.Errorf("Expected 2 skipped videos, got %d", len(bundle.Skipped))
	}
}

func TestBuildBundle_EmptyTranscriptSkipped(t *testing.T) {
	fetcher := &stubFetcher{
		transcripts: map[string]model.Transcript{
			"blank": {VideoID: "blank"},
			"full":  {VideoID: "full", Segments: segs("spoken content here")},
		},
	}

	bundle, err := BuildBundle(context.Background(), fetcher, []string{"blank", "full"}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(bundle.Skipped) != 1 || bundle.Skipped[0].URL != "blank" {
		t.Errorf("Expected blank transcript skipped, got %v", bundle.Skipped)
	}
}

func TestBuildBundle_NoURLs(t *testing.T) {
	bundle, err := BuildBundle(context.Background(), &stubFetcher{}, nil, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bundle.IsEmpty() {
		t.Error("Expected empty bundle for no URLs")
	}
}

func TestBuildBundle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{
		transcripts: map[string]model.Transcript{"v1": {VideoID: "v1", Segments: segs("text")}},
		delays:      map[string]time.Duration{"v1": time.Second},
	}

	_, err := BuildBundle(ctx, fetcher, []string{"v1"}, 1)
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}
