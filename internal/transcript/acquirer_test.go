package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"extra params", "https://www.youtube.com/watch?list=x&v=abc123", "abc123", false},
		{"short link", "https://youtu.be/abc123", "abc123", false},
		{"bare id after equals", "v=xyz", "xyz", false},
		{"empty", "", "", true},
		{"trailing equals", "https://example.com/watch?v=", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

const srv3Captions = `<?xml version="1.0" encoding="utf-8"?>
<timedtext><body>
<p t="0" d="1500">our annual turnover </p>
<p t="1500" d="2000">reached 500 crore rupees</p>
</body></timedtext>`

func TestAcquire_Success(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtubei/v1/player":
			fmt.Fprintf(w, `{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[
				{"baseUrl":"%s/api/timedtext?v=abc123","languageCode":"en","kind":""}
			]}}}`, server.URL)
		case "/api/timedtext":
			w.Header().Set("Content-Type", "text/xml")
			fmt.Fprint(w, srv3Captions)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	origEndpoint := playerEndpoint
	playerEndpoint = server.URL + "/youtubei/v1/player"
	defer func() { playerEndpoint = origEndpoint }()

	acq := NewAcquirer(5*time.Second, nil)
	tr, err := acq.Acquire(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if tr.VideoID != "abc123" {
		t.Errorf("Expected video id abc123, got %s", tr.VideoID)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(tr.Segments))
	}
	if tr.Segments[1].Start != 1.5 {
		t.Errorf("Expected second segment at 1.5s, got %v", tr.Segments[1].Start)
	}
	if got := tr.Text(); got != "our annual turnover reached 500 crore rupees " {
		t.Errorf("Unexpected transcript text: %q", got)
	}
}

func TestAcquire_CaptionsDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Player response without any caption tracks
		fmt.Fprint(w, `{"captions":{}}`)
	}))
	defer server.Close()

	origEndpoint := playerEndpoint
	playerEndpoint = server.URL + "/youtubei/v1/player"
	defer func() { playerEndpoint = origEndpoint }()

	acq := NewAcquirer(5*time.Second, nil)
	_, err := acq.Acquire(context.Background(), "https://www.youtube.com/watch?v=noCaptions")

	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("Expected *AcquisitionError, got %T: %v", err, err)
	}
	if acqErr.VideoID != "noCaptions" {
		t.Errorf("Expected video id noCaptions, got %s", acqErr.VideoID)
	}
}

func TestAcquire_InvalidReference(t *testing.T) {
	acq := NewAcquirer(5*time.Second, nil)
	_, err := acq.Acquire(context.Background(), "   ")

	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("Expected *AcquisitionError, got %T: %v", err, err)
	}
}

func TestCleanCaption(t *testing.T) {
	in := "[Music] we&#39;re   listing &amp; expanding [Applause]"
	want := "we're listing & expanding"
	if got := cleanCaption(in); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
