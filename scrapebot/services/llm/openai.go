package llm

import (
	"context"
	"fmt"

	"scrapebot/utils/httputils"
	"scrapebot/utils/logging"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel = "gpt-4o"
)

// OpenAIClient speaks the OpenAI chat-completions wire format.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
		model:   openAIDefaultModel,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

type openAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	defer logging.LogDuration(ctx, "openai_complete")()

	var messages []Message
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, Message{Role: "user", Content: req.Prompt})

	body := openAIRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}

	var parsed openAIResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := httputils.PostJSONWithHeaders(ctx, c.baseURL, headers, body, &parsed); err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no content in openai response")
	}
	return parsed.Choices[0].Message.Content, nil
}
