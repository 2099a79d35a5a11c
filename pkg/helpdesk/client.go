// Package helpdesk provides a client for the helpdesk admin API that
// historical conversation records are sourced from. The API returns records
// already structured as tags plus transcript text; the HTML scraping that
// produces them happens on the helpdesk side.
package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"supportmatch-go/internal/config"
)

// ConversationRecord is the structured record the admin API returns for one
// conversation.
type ConversationRecord struct {
	ConversationID string   `json:"conversationId"`
	CustomerName   string   `json:"customerName"`
	Tags           []string `json:"tags"`
	Transcript     string   `json:"transcript"`
	MessageCount   int      `json:"messageCount"`
}

// Client talks to the helpdesk admin API.
type Client struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewClient creates a new helpdesk client instance.
func NewClient(cfg config.HelpdeskConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchRecord retrieves the structured record of one conversation.
func (c *Client) FetchRecord(ctx context.Context, conversationID string) (*ConversationRecord, error) {
	url := fmt.Sprintf("%s/api/conversations/%s/export", c.baseURL, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call helpdesk api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("helpdesk api returned [%d]: %s", resp.StatusCode, string(body))
	}

	var record ConversationRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode helpdesk response: %w", err)
	}
	if record.ConversationID == "" {
		record.ConversationID = conversationID
	}
	return &record, nil
}
