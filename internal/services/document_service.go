package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"strings"
)

// --- Custom Service Errors for Documents ---
var (
	ErrDocumentNotFound = errors.New("document not found")
)

// --- Document DTOs ---

type CreateDocumentRequest struct {
	Title     string  `json:"title" binding:"required"`
	FileKey   string  `json:"file_key" binding:"required"`
	FileName  string  `json:"file_name" binding:"required"`
	MimeType  *string `json:"mime_type"`
	SizeBytes int64   `json:"size_bytes"`
	MenteeID  *int64  `json:"mentee_id"`
}

type UpdateDocumentRequest struct {
	Title    *string `json:"title"`
	MenteeID *int64  `json:"mentee_id"`
}

// --- DocumentService Interface ---
type DocumentService interface {
	CreateDocument(req CreateDocumentRequest, uploadedBy *int64) (*models.Document, error)
	GetDocumentByID(documentID int64) (*models.Document, error)
	GetDocuments(filters repositories.DocumentFilters) ([]models.Document, int, error)
	UpdateDocument(documentID int64, req UpdateDocumentRequest) (*models.Document, error)
	DeleteDocument(documentID int64) error
}

type documentService struct {
	documentRepo repositories.DocumentRepository
	db           *sql.DB
}

func NewDocumentService(repo repositories.DocumentRepository, db *sql.DB) DocumentService {
	return &documentService{documentRepo: repo, db: db}
}

func (s *documentService) CreateDocument(req CreateDocumentRequest, uploadedBy *int64) (*models.Document, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(req.FileKey) == "" {
		return nil, fmt.Errorf("%w: file_key cannot be empty", ErrValidation)
	}
	if req.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: size_bytes cannot be negative", ErrValidation)
	}

	doc := &models.Document{
		Title:      req.Title,
		FileKey:    req.FileKey,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
		MenteeID:   req.MenteeID,
		UploadedBy: uploadedBy,
	}
	id, err := s.documentRepo.CreateDocument(s.db, doc)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: mentee_id does not exist", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return s.documentRepo.GetDocumentByID(id)
}

func (s *documentService) GetDocumentByID(documentID int64) (*models.Document, error) {
	doc, err := s.documentRepo.GetDocumentByID(documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *documentService) GetDocuments(filters repositories.DocumentFilters) ([]models.Document, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	docs, totalCount, err := s.documentRepo.GetDocuments(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get documents: %w", err)
	}
	return docs, totalCount, nil
}

func (s *documentService) UpdateDocument(documentID int64, req UpdateDocumentRequest) (*models.Document, error) {
	doc, err := s.documentRepo.GetDocumentByID(documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document for update: %w", err)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty if provided", ErrValidation)
		}
		doc.Title = *req.Title
	}
	if req.MenteeID != nil {
		doc.MenteeID = req.MenteeID
	}

	if err := s.documentRepo.UpdateDocument(s.db, doc); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: mentee_id does not exist", ErrValidation)
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return s.documentRepo.GetDocumentByID(documentID)
}

func (s *documentService) DeleteDocument(documentID int64) error {
	err := s.documentRepo.DeleteDocument(s.db, documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
