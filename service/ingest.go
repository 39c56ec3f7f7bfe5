package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docvault/server/config"
)

// IngestClient calls the external ingestion endpoint. Latency and
// availability of that endpoint are outside our control; every call is
// issued with a bounded timeout.
type IngestClient struct {
	config     *config.IngestConfig
	httpClient *http.Client
}

// IngestRequest is the body posted to the ingestion endpoint
type IngestRequest struct {
	DocumentID string          `json:"document_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func NewIngestClient(cfg *config.IngestConfig) *IngestClient {
	return &IngestClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Ingest submits the document payload and returns the endpoint's decoded
// response. A timeout surfaces as an ordinary error like any other failure.
func (c *IngestClient) Ingest(ctx context.Context, documentID string, payload json.RawMessage) (map[string]any, error) {
	body, err := json.Marshal(IngestRequest{
		DocumentID: documentID,
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.EndpointURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ingestion endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(respBody))
		}
	}

	return result, nil
}
