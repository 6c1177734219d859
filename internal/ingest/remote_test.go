package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRemoteParser_Parse(t *testing.T) {
	origSleep := parseSleepFunc
	parseSleepFunc = func(time.Duration) {}
	defer func() { parseSleepFunc = origSleep }()

	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer llx-test" {
			t.Errorf("Expected bearer auth, got %q", got)
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/parsing/upload":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("Expected multipart upload: %v", err)
			}
			fmt.Fprint(w, `{"id":"job-42"}`)
		case r.URL.Path == "/api/parsing/job/job-42":
			polls++
			if polls < 3 {
				fmt.Fprint(w, `{"status":"PENDING"}`)
			} else {
				fmt.Fprint(w, `{"status":"SUCCESS"}`)
			}
		case r.URL.Path == "/api/parsing/job/job-42/result/markdown":
			fmt.Fprint(w, `{"markdown":"# Prospectus\n\nExtracted body text."}`)
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	parser := NewRemoteParser(server.URL, "llx-test", 5*time.Second, time.Millisecond)
	got, err := parser.Parse(context.Background(), "doc.pdf", []byte("%PDF stub"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "Extracted body text.") {
		t.Errorf("Unexpected markdown: %q", got)
	}
	if polls < 3 {
		t.Errorf("Expected at least 3 status polls, got %d", polls)
	}
}

func TestRemoteParser_JobError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			fmt.Fprint(w, `{"id":"job-9"}`)
		default:
			fmt.Fprint(w, `{"status":"ERROR"}`)
		}
	}))
	defer server.Close()

	parser := NewRemoteParser(server.URL, "llx-test", 5*time.Second, time.Millisecond)
	_, err := parser.Parse(context.Background(), "doc.pdf", []byte("%PDF stub"))
	if err == nil || !strings.Contains(err.Error(), "ERROR") {
		t.Fatalf("Expected job failure error, got %v", err)
	}
}

func TestRemoteParser_UploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"invalid api key"}`)
	}))
	defer server.Close()

	parser := NewRemoteParser(server.URL, "bad-key", 5*time.Second, time.Millisecond)
	_, err := parser.Parse(context.Background(), "doc.pdf", []byte("%PDF stub"))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("Expected 401 error, got %v", err)
	}
}
