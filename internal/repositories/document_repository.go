package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"strings"
	"time"

	"github.com/lib/pq"
)

// DocumentFilters narrows document listings.
type DocumentFilters struct {
	MenteeID *int64
	Search   *string // matches title or file_name
	Page     int
	PageSize int
}

// DocumentRepository defines the interface for document metadata database operations.
type DocumentRepository interface {
	CreateDocument(executor SQLExecutor, doc *models.Document) (int64, error)
	GetDocumentByID(id int64) (*models.Document, error)
	GetDocuments(filters DocumentFilters) ([]models.Document, int, error)
	UpdateDocument(executor SQLExecutor, doc *models.Document) error
	DeleteDocument(executor SQLExecutor, id int64) error
}

type documentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateDocument(executor SQLExecutor, doc *models.Document) (int64, error) {
	query := `INSERT INTO documents (title, file_key, file_name, mime_type, size_bytes, mentee_id, uploaded_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		doc.Title, doc.FileKey, doc.FileName, doc.MimeType, doc.SizeBytes,
		doc.MenteeID, doc.UploadedBy, currentTime, currentTime,
	).Scan(&doc.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: mentee_id does not reference an existing mentee (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating document: %v", ErrDatabaseError, err)
	}
	return doc.ID, nil
}

func (r *documentRepository) GetDocumentByID(id int64) (*models.Document, error) {
	doc := &models.Document{}
	query := `SELECT id, title, file_key, file_name, mime_type, size_bytes, mentee_id, uploaded_by, created_at, updated_at
	          FROM documents
	          WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&doc.ID, &doc.Title, &doc.FileKey, &doc.FileName, &doc.MimeType, &doc.SizeBytes,
		&doc.MenteeID, &doc.UploadedBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting document by ID %d: %v", ErrDatabaseError, id, err)
	}
	return doc, nil
}

func (r *documentRepository) GetDocuments(filters DocumentFilters) ([]models.Document, int, error) {
	docs := []models.Document{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, title, file_key, file_name, mime_type, size_bytes, mentee_id, uploaded_by, created_at, updated_at,
	       COUNT(*) OVER() AS total_count
	  FROM documents`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.MenteeID != nil {
		conditions = append(conditions, fmt.Sprintf("mentee_id = $%d", argCount))
		args = append(args, *filters.MenteeID)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR file_name ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting documents: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.FileKey, &doc.FileName, &doc.MimeType, &doc.SizeBytes,
			&doc.MenteeID, &doc.UploadedBy, &doc.CreatedAt, &doc.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning document: %v", ErrDatabaseError, err)
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating documents: %v", ErrDatabaseError, err)
	}
	return docs, totalCount, nil
}

func (r *documentRepository) UpdateDocument(executor SQLExecutor, doc *models.Document) error {
	query := `UPDATE documents SET title = $1, mentee_id = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, doc.Title, doc.MenteeID, time.Now(), doc.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: mentee_id does not reference an existing mentee (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating document ID %d: %v", ErrDatabaseError, doc.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository) DeleteDocument(executor SQLExecutor, id int64) error {
	query := `DELETE FROM documents WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting document ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
