// Package llm provides a client for the summary model used at ingest time.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"supportmatch-go/internal/config"
)

// Client defines the interface for the summary client.
type Client interface {
	// Summarize produces a one-to-two sentence display summary of a support
	// conversation transcript.
	Summarize(ctx context.Context, transcript string) (string, error)
}

type openAICompatClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient creates a new summary client from the config.
func NewClient(cfg config.LLMConfig) Client {
	return &openAICompatClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// message is one role-based chat message.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const summarySystemPrompt = "You summarize customer support conversations. " +
	"Reply with one or two plain sentences naming the customer's problem and how it was resolved. " +
	"No preamble, no markdown."

// Summarize calls the chat completions API without streaming and returns the
// model's reply.
func (c *openAICompatClient) Summarize(ctx context.Context, transcript string) (string, error) {
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: transcript},
		},
		Stream: false,
	}
	if c.cfg.Temperature != 0 {
		t := c.cfg.Temperature
		reqBody.Temperature = &t
	}
	if c.cfg.MaxTokens != 0 {
		m := c.cfg.MaxTokens
		reqBody.MaxTokens = &m
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat api returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
