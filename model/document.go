package model

import (
	"time"
)

// Document represents an uploaded document owned by a user
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	Filename    string    `json:"filename"`
	ObjectKey   string    `json:"object_key"`
	FileURL     string    `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
