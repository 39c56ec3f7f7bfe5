package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docvault/server/service"
	"github.com/gin-gonic/gin"
)

type IngestionHandler struct {
	ingestion *service.IngestionService
}

func NewIngestionHandler(ingestion *service.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestion: ingestion}
}

// Trigger starts a new ingestion process for a document. The request body
// is passed through to the ingestion endpoint as-is.
func (h *IngestionHandler) Trigger(c *gin.Context) {
	documentID := c.Param("documentId")

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(payload) > 0 && !json.Valid(payload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be valid JSON"})
		return
	}

	result, err := h.ingestion.Trigger(c.Request.Context(), documentID, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger ingestion"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status returns the process record for an id
func (h *IngestionHandler) Status(c *gin.Context) {
	id := c.Param("id")

	process, err := h.ingestion.GetStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProcessNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ingestion process not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ingestion process"})
		return
	}

	c.JSON(http.StatusOK, process)
}

// Retry starts a fresh attempt for a failed process
func (h *IngestionHandler) Retry(c *gin.Context) {
	id := c.Param("id")

	result, err := h.ingestion.Retry(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProcessNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ingestion process not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retry ingestion"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// All returns every ingestion process record
func (h *IngestionHandler) All(c *gin.Context) {
	processes, err := h.ingestion.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ingestion processes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processes": processes})
}
