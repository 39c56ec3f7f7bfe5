package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes.
var (
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrProcessNotFound  = errors.New("ingestion process not found")
	ErrInvalidRole      = errors.New("invalid role")
)
