package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/docvault/server/middleware"
	"github.com/docvault/server/model"
	"github.com/docvault/server/pkg/logger"
	"github.com/docvault/server/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documents service.DocumentStore
	blobs     service.BlobStore
}

func NewDocumentHandler(documents service.DocumentStore, blobs service.BlobStore) *DocumentHandler {
	return &DocumentHandler{documents: documents, blobs: blobs}
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Create handles document upload. The binary goes to blob storage, the
// record to the document store with the caller as owner.
func (h *DocumentHandler) Create(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	if title == "" {
		title = header.Filename
	}
	description := c.PostForm("description")

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	docID := uuid.New().String()
	objectKey := fmt.Sprintf("%s/%s/%s", ownerID, docID, header.Filename)

	if err := h.blobs.UploadFile(c.Request.Context(), objectKey, file, header.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}

	fileURL, err := h.blobs.GetPresignedURL(c.Request.Context(), objectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	now := time.Now()
	doc := &model.Document{
		ID:          docID,
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		Filename:    header.Filename,
		ObjectKey:   objectKey,
		FileURL:     fileURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.documents.CreateDocument(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	logger.Info(c.Request.Context(), "document created", "document_id", docID)
	c.JSON(http.StatusCreated, doc)
}

// List returns all document records
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Get returns a single document record
func (h *DocumentHandler) Get(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.documents.FindDocumentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Update changes document metadata
func (h *DocumentHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	doc, err := h.documents.FindDocumentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}

	if err := h.documents.UpdateDocument(c.Request.Context(), doc); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Delete removes a document record and its stored binary
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.documents.FindDocumentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if err := h.blobs.DeleteFile(c.Request.Context(), doc.ObjectKey); err != nil {
		// The record is still removed; the orphaned object is logged
		logger.Warn(c.Request.Context(), "failed to delete stored object", "object_key", doc.ObjectKey, "error", err)
	}

	if err := h.documents.DeleteDocument(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
