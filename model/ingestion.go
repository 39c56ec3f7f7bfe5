package model

import (
	"encoding/json"
	"time"
)

// IngestionProcess tracks one attempt to run an external ingestion job
// against a document
type IngestionProcess struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"document_id"`
	Status     string          `json:"status"` // pending, processing, completed, failed
	ErrorMsg   string          `json:"error_msg,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IngestionProcess status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
