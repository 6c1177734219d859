package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	cases := []struct {
		name     string
		provider string
		apiKey   string
		wantName string
		wantErr  bool
	}{
		{"openai", "openai", "sk-test", "openai", false},
		{"anthropic", "anthropic", "sk-ant-test", "anthropic", false},
		{"claude alias", "claude", "sk-ant-test", "anthropic", false},
		{"ollama", "ollama", "", "ollama", false},
		{"case insensitive", "OpenAI", "sk-test", "openai", false},
		{"unknown", "gemini", "key", "", true},
		{"anthropic without key", "anthropic", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: tc.provider, APIKey: tc.apiKey})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got provider %s", p.Name())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name() != tc.wantName {
				t.Errorf("Expected provider %s, got %s", tc.wantName, p.Name())
			}
		})
	}
}

func TestAnthropicProvider_Invoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test" {
			t.Errorf("Expected api key header, got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("Expected anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		if req.System != "system instructions" {
			t.Errorf("Expected system instructions passed through, got %q", req.System)
		}

		fmt.Fprint(w, `{"content":[{"type":"text","text":"verified "},{"type":"text","text":"response"}]}`)
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := p.Invoke(context.Background(), "system instructions", "user payload")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got != "verified response" {
		t.Errorf("Expected concatenated text blocks, got %q", got)
	}
}

func TestAnthropicProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`)
	}))
	defer server.Close()

	p, _ := NewAnthropicProvider(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	_, err := p.Invoke(context.Background(), "sys", "payload")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("Expected rate limit error surfaced, got %v", err)
	}
}

func TestOllamaProvider_Invoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected streaming disabled")
		}
		if req.System != "sys" || req.Prompt != "payload" {
			t.Errorf("Unexpected request: system=%q prompt=%q", req.System, req.Prompt)
		}
		fmt.Fprint(w, `{"model":"llama3.2","response":"  local answer  ","done":true}`)
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := p.Invoke(context.Background(), "sys", "payload")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got != "local answer" {
		t.Errorf("Expected trimmed response, got %q", got)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			fmt.Fprint(w, `{"models":[]}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, _ := NewOllamaProvider(Config{BaseURL: server.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("Expected availability against a responding server")
	}

	server.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("Expected unavailability after server shutdown")
	}
}

func TestAnthropicProvider_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[]}`)
	}))
	defer server.Close()

	p, _ := NewAnthropicProvider(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	_, err := p.Invoke(context.Background(), "sys", "payload")
	if err == nil {
		t.Fatal("Expected error for empty response content")
	}
}
