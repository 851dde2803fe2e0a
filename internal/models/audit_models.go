package models

import "time"

// AuditLogEntry is an immutable record of a successful mutating request.
// Entries are append-only; the application never updates or deletes them.
type AuditLogEntry struct {
	ID         int64     `json:"id" db:"id"`
	ActorID    *int64    `json:"actor_id,omitempty" db:"actor_id"`
	ActorName  *string   `json:"actor_name,omitempty" db:"actor_name"`
	Action     string    `json:"action" db:"action"`     // HTTP method
	Resource   string    `json:"resource" db:"resource"` // first path segment, e.g. "invoices"
	ResourceID *string   `json:"resource_id,omitempty" db:"resource_id"`
	Details    *string   `json:"details,omitempty" db:"details"` // request body, JSON
	IPAddress  *string   `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  *string   `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
