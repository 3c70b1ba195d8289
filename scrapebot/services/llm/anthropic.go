package llm

import (
	"context"
	"fmt"

	"scrapebot/utils/httputils"
	"scrapebot/utils/logging"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
)

// AnthropicClient speaks the Anthropic messages wire format.
type AnthropicClient struct {
	apiKey  string
	baseURL string
	model   string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:  apiKey,
		baseURL: anthropicBaseURL,
		model:   anthropicDefaultModel,
	}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	defer logging.LogDuration(ctx, "anthropic_complete")()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	body := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages:  []Message{{Role: "user", Content: req.Prompt}},
	}

	var parsed anthropicResponse
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}
	if err := httputils.PostJSONWithHeaders(ctx, c.baseURL, headers, body, &parsed); err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return "", fmt.Errorf("no content in anthropic response")
	}
	return content, nil
}
