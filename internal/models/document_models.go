package models

import "time"

// Document holds metadata for a file stored in the external object store.
// The binary itself never passes through this service beyond upload plumbing;
// file_key is the storage reference.
type Document struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title" binding:"required"`
	FileKey    string    `json:"file_key" db:"file_key" binding:"required"`
	FileName   string    `json:"file_name" db:"file_name" binding:"required"`
	MimeType   *string   `json:"mime_type,omitempty" db:"mime_type"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	MenteeID   *int64    `json:"mentee_id,omitempty" db:"mentee_id"`
	UploadedBy *int64    `json:"uploaded_by,omitempty" db:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
