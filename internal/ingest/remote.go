package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// parseSleepFunc is the sleep used between job polls (injectable for tests)
var parseSleepFunc = time.Sleep

// RemoteParser extracts markdown from documents via a hosted parsing service
// (LlamaParse-compatible job API). This is the single longest-latency step in
// a run: upload, poll until the job completes, then fetch the result.
type RemoteParser struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
}

// NewRemoteParser creates a remote parser client
func NewRemoteParser(baseURL, apiKey string, timeout, pollInterval time.Duration) *RemoteParser {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &RemoteParser{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		pollInterval: pollInterval,
	}
}

// Parse uploads the document and blocks until the service returns markdown
func (p *RemoteParser) Parse(ctx context.Context, name string, data []byte) (string, error) {
	jobID, err := p.upload(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		status, err := p.jobStatus(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("poll job %s: %w", jobID, err)
		}

		switch status {
		case "SUCCESS":
			return p.jobMarkdown(ctx, jobID)
		case "ERROR", "CANCELLED":
			return "", fmt.Errorf("parse job %s failed with status %s", jobID, status)
		}

		parseSleepFunc(p.pollInterval)
	}
}

func (p *RemoteParser) upload(ctx context.Context, name string, data []byte) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/api/parsing/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var resp struct {
		ID string `json:"id"`
	}
	if err := p.doJSON(req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("upload response missing job id")
	}
	return resp.ID, nil
}

func (p *RemoteParser) jobStatus(ctx context.Context, jobID string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/api/parsing/job/"+jobID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var resp struct {
		Status string `json:"status"`
	}
	if err := p.doJSON(req, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (p *RemoteParser) jobMarkdown(ctx context.Context, jobID string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/api/parsing/job/"+jobID+"/result/markdown", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var resp struct {
		Markdown string `json:"markdown"`
	}
	if err := p.doJSON(req, &resp); err != nil {
		return "", err
	}
	return resp.Markdown, nil
}

func (p *RemoteParser) doJSON(req *http.Request, out interface{}) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return json.Unmarshal(body, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
