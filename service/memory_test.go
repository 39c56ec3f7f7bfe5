package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docvault/server/model"
)

func TestMemoryStoreUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &model.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	// Lookup by each key
	byEmail, err := store.FindUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail == nil {
		t.Fatalf("Expected user by email, got %v, %v", byEmail, err)
	}
	byUsername, err := store.FindUserByUsername(ctx, "alice")
	if err != nil || byUsername == nil {
		t.Fatalf("Expected user by username, got %v, %v", byUsername, err)
	}
	byID, err := store.FindUserByID(ctx, "user-1")
	if err != nil || byID == nil {
		t.Fatalf("Expected user by id, got %v, %v", byID, err)
	}

	// Missing records return nil, nil
	missing, err := store.FindUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown email")
	}

	// Role update
	if err := store.UpdateUserRole(ctx, "user-1", model.RoleEditor); err != nil {
		t.Fatalf("Failed to update role: %v", err)
	}
	updated, _ := store.FindUserByID(ctx, "user-1")
	if updated.Role != model.RoleEditor {
		t.Errorf("Expected role editor, got %s", updated.Role)
	}

	if err := store.UpdateUserRole(ctx, "unknown", model.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	// Delete
	if err := store.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	gone, _ := store.FindUserByID(ctx, "user-1")
	if gone != nil {
		t.Error("Expected user to be deleted")
	}
	if err := store.DeleteUser(ctx, "user-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &model.User{ID: "user-1", Username: "alice", Email: "a@example.com", Role: model.RoleUser}
	store.CreateUser(ctx, user)

	found, _ := store.FindUserByID(ctx, "user-1")
	found.Role = model.RoleAdmin

	again, _ := store.FindUserByID(ctx, "user-1")
	if again.Role != model.RoleUser {
		t.Error("Mutating a returned record must not affect the store")
	}
}

func TestMemoryStoreDocuments(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc := &model.Document{
		ID:        "doc-1",
		Title:     "Report",
		OwnerID:   "user-1",
		CreatedAt: time.Now(),
	}

	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	found, err := store.FindDocumentByID(ctx, "doc-1")
	if err != nil || found == nil {
		t.Fatalf("Expected document, got %v, %v", found, err)
	}

	found.Title = "Updated report"
	if err := store.UpdateDocument(ctx, found); err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}
	updated, _ := store.FindDocumentByID(ctx, "doc-1")
	if updated.Title != "Updated report" {
		t.Errorf("Expected updated title, got %s", updated.Title)
	}

	if err := store.UpdateDocument(ctx, &model.Document{ID: "unknown"}); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}

	docs, _ := store.ListDocuments(ctx)
	if len(docs) != 1 {
		t.Errorf("Expected 1 document, got %d", len(docs))
	}

	if err := store.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}
	if err := store.DeleteDocument(ctx, "doc-1"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestMemoryStoreProcesses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p := &model.IngestionProcess{
		ID:         "proc-1",
		DocumentID: "doc-1",
		Status:     model.StatusProcessing,
		Payload:    []byte(`{"pages": 3}`),
		CreatedAt:  time.Now(),
	}

	if err := store.CreateProcess(ctx, p); err != nil {
		t.Fatalf("Failed to create process: %v", err)
	}

	found, err := store.FindProcessByID(ctx, "proc-1")
	if err != nil || found == nil {
		t.Fatalf("Expected process, got %v, %v", found, err)
	}
	if string(found.Payload) != `{"pages": 3}` {
		t.Errorf("Expected payload to round-trip, got %s", found.Payload)
	}

	found.Status = model.StatusFailed
	found.ErrorMsg = "boom"
	if err := store.UpdateProcess(ctx, found); err != nil {
		t.Fatalf("Failed to update process: %v", err)
	}
	updated, _ := store.FindProcessByID(ctx, "proc-1")
	if updated.Status != model.StatusFailed || updated.ErrorMsg != "boom" {
		t.Errorf("Expected failed/boom, got %s/%s", updated.Status, updated.ErrorMsg)
	}

	if err := store.UpdateProcess(ctx, &model.IngestionProcess{ID: "unknown"}); !errors.Is(err, ErrProcessNotFound) {
		t.Errorf("Expected ErrProcessNotFound, got %v", err)
	}

	all, _ := store.ListProcesses(ctx)
	if len(all) != 1 {
		t.Errorf("Expected 1 process, got %d", len(all))
	}
}
