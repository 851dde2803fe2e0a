package services

import (
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/pkg/utils"
)

// AuditService records and lists audit log entries.
type AuditService interface {
	// Record inserts one entry. Errors are returned for the caller to log;
	// they must never fail the originating request.
	Record(entry *models.AuditLogEntry) error
	GetEntries(filters repositories.AuditFilters) ([]models.AuditLogEntry, int, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(repo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: repo}
}

func (s *auditService) Record(entry *models.AuditLogEntry) error {
	if _, err := s.auditRepo.CreateEntry(entry); err != nil {
		utils.LogError(err, "audit entry insert failed")
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (s *auditService) GetEntries(filters repositories.AuditFilters) ([]models.AuditLogEntry, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	entries, totalCount, err := s.auditRepo.GetEntries(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get audit entries: %w", err)
	}
	return entries, totalCount, nil
}
