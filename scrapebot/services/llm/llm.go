// Package llm holds the provider capability layer. The rest of the codebase
// talks to the Client interface only; which vendor sits behind it is decided
// once, at construction time.
package llm

import (
	"context"
	"strings"

	"scrapebot/config"
)

// Message is one chat turn in the provider-neutral shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single text-in/text-out call. System may be empty.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Client is the capability every provider variant implements.
type Client interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewClient selects a provider implementation by name. A missing API key or
// an unknown provider yields nil — callers treat a nil client as "AI
// disabled", never as a fault.
func NewClient(provider string, cfg config.Config) Client {
	switch strings.ToLower(provider) {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil
		}
		return NewOpenAIClient(cfg.OpenAIKey)
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil
		}
		return NewAnthropicClient(cfg.AnthropicKey)
	default:
		return nil
	}
}
