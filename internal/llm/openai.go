package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Backend against the OpenAI chat-completions API.
type OpenAIClient struct {
	client *openai.Client
	stats  *Stats
}

// NewOpenAIClient builds a client for the given key. baseURL overrides the
// API endpoint when non-empty (for proxies and compatible backends).
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		stats:  NewStats(time.Hour),
	}
}

// Complete issues one chat-completion request and returns the first choice's
// content. Rate limits and server errors come back as *RetryableError.
func (c *OpenAIClient) Complete(ctx context.Context, model string, messages []Message, temperature float32) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: temperature,
	})
	c.stats.Record(time.Since(start), err != nil)

	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from backend")
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping verifies credentials and reachability by listing models, the cheapest
// authenticated call the API offers.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("backend unavailable: %w", err)
	}
	return nil
}

// Stats returns the rolling latency tracker for this client.
func (c *OpenAIClient) Stats() *Stats {
	return c.stats
}

// classify wraps transient backend failures in *RetryableError so callers
// can back off and retry; everything else passes through.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return &RetryableError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return fmt.Errorf("backend status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500 {
			return &RetryableError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
		}
	}
	return fmt.Errorf("backend request: %w", err)
}
