package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docvault/server/model"
	"github.com/docvault/server/pkg/logger"
	"github.com/google/uuid"
)

// Ingestor abstracts the external ingestion endpoint for the orchestrator
type Ingestor interface {
	Ingest(ctx context.Context, documentID string, payload json.RawMessage) (map[string]any, error)
}

// IngestionService owns the lifecycle of ingestion process records and
// delegates the actual work to the external endpoint
type IngestionService struct {
	processes ProcessStore
	ingestor  Ingestor
}

func NewIngestionService(processes ProcessStore, ingestor Ingestor) *IngestionService {
	return &IngestionService{processes: processes, ingestor: ingestor}
}

// TriggerResult summarizes the outcome of a trigger or retry. Upstream
// failures land here as a failed process, never as a returned error.
type TriggerResult struct {
	Message string         `json:"message"`
	ID      string         `json:"id,omitempty"`
	Status  string         `json:"status,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Trigger creates a process record in processing state, calls the external
// endpoint and settles the record into completed or failed. The returned
// error covers store failures only; endpoint failures are recorded on the
// process and reported in the result.
func (s *IngestionService) Trigger(ctx context.Context, documentID string, payload json.RawMessage) (*TriggerResult, error) {
	now := time.Now()
	process := &model.IngestionProcess{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Status:     model.StatusProcessing,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.processes.CreateProcess(ctx, process); err != nil {
		return nil, fmt.Errorf("creating ingestion process: %w", err)
	}

	result, err := s.ingestor.Ingest(ctx, documentID, payload)
	if err != nil {
		process.Status = model.StatusFailed
		process.ErrorMsg = err.Error()
		if storeErr := s.processes.UpdateProcess(ctx, process); storeErr != nil {
			return nil, fmt.Errorf("recording ingestion failure: %w", storeErr)
		}

		logger.Warn(ctx, "ingestion failed", "process_id", process.ID, "document_id", documentID, "error", err)
		return &TriggerResult{
			Message: "Failed to trigger ingestion",
			ID:      process.ID,
			Status:  model.StatusFailed,
			Error:   err.Error(),
		}, nil
	}

	process.Status = model.StatusCompleted
	process.ErrorMsg = ""
	if err := s.processes.UpdateProcess(ctx, process); err != nil {
		return nil, fmt.Errorf("recording ingestion completion: %w", err)
	}

	logger.Info(ctx, "ingestion completed", "process_id", process.ID, "document_id", documentID)
	return &TriggerResult{
		Message: "Ingestion triggered and completed",
		ID:      process.ID,
		Status:  model.StatusCompleted,
		Result:  result,
	}, nil
}

// GetStatus returns the process record for id
func (s *IngestionService) GetStatus(ctx context.Context, id string) (*model.IngestionProcess, error) {
	process, err := s.processes.FindProcessByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up ingestion process: %w", err)
	}
	if process == nil {
		return nil, ErrProcessNotFound
	}
	return process, nil
}

// Retry starts a fresh attempt for a failed process. The failed record is
// kept untouched for audit; the new attempt reuses the document id and the
// originally persisted payload. Retrying anything but a failed process is
// a no-op.
func (s *IngestionService) Retry(ctx context.Context, id string) (*TriggerResult, error) {
	process, err := s.processes.FindProcessByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up ingestion process: %w", err)
	}
	if process == nil {
		return nil, ErrProcessNotFound
	}

	if process.Status != model.StatusFailed {
		return &TriggerResult{
			Message: "Ingestion is not in a failed state and cannot be retried",
			ID:      process.ID,
			Status:  process.Status,
		}, nil
	}

	logger.Info(ctx, "retrying ingestion", "process_id", process.ID, "document_id", process.DocumentID)
	return s.Trigger(ctx, process.DocumentID, process.Payload)
}

// ListAll returns every process record
func (s *IngestionService) ListAll(ctx context.Context) ([]*model.IngestionProcess, error) {
	return s.processes.ListProcesses(ctx)
}
