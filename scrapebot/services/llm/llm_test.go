package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"scrapebot/config"
	"scrapebot/utils/logging"
)

func TestOpenAICompleteWireFormat(t *testing.T) {
	logging.InitLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "summary text"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key")
	c.baseURL = srv.URL

	out, err := c.Complete(context.Background(), CompletionRequest{
		System: "You summarize.", Prompt: "Summarize this.", MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "summary text" {
		t.Errorf("content = %q", out)
	}
}

func TestAnthropicCompleteWireFormat(t *testing.T) {
	logging.InitLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("anthropic-version header missing")
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.MaxTokens <= 0 {
			t.Errorf("max_tokens = %d, must be positive", req.MaxTokens)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": "claude "},
				{"type": "text", "text": "reply"},
			},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key")
	c.baseURL = srv.URL

	out, err := c.Complete(context.Background(), CompletionRequest{Prompt: "Hello"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "claude reply" {
		t.Errorf("content = %q", out)
	}
}

func TestNewClientSelection(t *testing.T) {
	cfg := config.Config{OpenAIKey: "k"}
	if c := NewClient("openai", cfg); c == nil || c.Name() != "openai" {
		t.Error("expected openai client when key is set")
	}
	if c := NewClient("anthropic", cfg); c != nil {
		t.Error("missing anthropic key must yield nil client")
	}
	if c := NewClient("something-else", cfg); c != nil {
		t.Error("unknown provider must yield nil client")
	}
}
