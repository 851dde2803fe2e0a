package repositories

import (
	"database/sql"
	"fmt"
	"mentorhub_backend/internal/models"
	"strings"
	"time"
)

// AuditFilters narrows audit log listings.
type AuditFilters struct {
	ActorID  *int64
	Resource *string
	Action   *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// AuditRepository defines the interface for audit log database operations.
// The log is append-only; there are no update or delete methods.
type AuditRepository interface {
	CreateEntry(entry *models.AuditLogEntry) (int64, error)
	GetEntries(filters AuditFilters) ([]models.AuditLogEntry, int, error)
}

type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateEntry(entry *models.AuditLogEntry) (int64, error) {
	query := `INSERT INTO audit_log (actor_id, actor_name, action, resource, resource_id, details, ip_address, user_agent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	err := r.db.QueryRow(query,
		entry.ActorID, entry.ActorName, entry.Action, entry.Resource, entry.ResourceID,
		entry.Details, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating audit log entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *auditRepository) GetEntries(filters AuditFilters) ([]models.AuditLogEntry, int, error) {
	entries := []models.AuditLogEntry{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, actor_id, actor_name, action, resource, resource_id, details, ip_address, user_agent, created_at,
	       COUNT(*) OVER() AS total_count
	  FROM audit_log`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.ActorID != nil {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", argCount))
		args = append(args, *filters.ActorID)
		argCount++
	}
	if filters.Resource != nil && *filters.Resource != "" {
		conditions = append(conditions, fmt.Sprintf("resource = $%d", argCount))
		args = append(args, *filters.Resource)
		argCount++
	}
	if filters.Action != nil && *filters.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argCount))
		args = append(args, *filters.Action)
		argCount++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCount))
		args = append(args, *filters.From)
		argCount++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argCount))
		args = append(args, *filters.To)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting audit log entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.AuditLogEntry
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.ActorName, &entry.Action, &entry.Resource, &entry.ResourceID,
			&entry.Details, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning audit log entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating audit log entries: %v", ErrDatabaseError, err)
	}
	return entries, totalCount, nil
}
