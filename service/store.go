package service

import (
	"context"

	"github.com/docvault/server/model"
)

// UserStore is the persistence contract for accounts.
// Find methods return (nil, nil) when no record matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
	DeleteUser(ctx context.Context, id string) error
}

// DocumentStore is the persistence contract for document records.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	FindDocumentByID(ctx context.Context, id string) (*model.Document, error)
	ListDocuments(ctx context.Context) ([]*model.Document, error)
	UpdateDocument(ctx context.Context, doc *model.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// ProcessStore is the persistence contract for ingestion process records.
type ProcessStore interface {
	CreateProcess(ctx context.Context, p *model.IngestionProcess) error
	FindProcessByID(ctx context.Context, id string) (*model.IngestionProcess, error)
	ListProcesses(ctx context.Context) ([]*model.IngestionProcess, error)
	UpdateProcess(ctx context.Context, p *model.IngestionProcess) error
}

// Store bundles the per-entity contracts implemented by each backend.
type Store interface {
	UserStore
	DocumentStore
	ProcessStore
	Close() error
}
