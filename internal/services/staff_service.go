package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrStaffConflict   = errors.New("staff member conflict")
	ErrStaffReferenced = errors.New("staff member is referenced by other records")
)

// --- Staff DTOs ---

type CreateStaffRequest struct {
	UserID      *int64  `json:"user_id"`
	PhoneNumber *string `json:"phone_number"`
	Position    *string `json:"position"`
	HireDate    *string `json:"hire_date"` // YYYY-MM-DD
	Notes       *string `json:"notes"`
}

type UpdateStaffRequest struct {
	PhoneNumber *string `json:"phone_number"`
	Position    *string `json:"position"`
	HireDate    *string `json:"hire_date"`
	Notes       *string `json:"notes"`
}

// --- StaffService Interface ---
type StaffService interface {
	CreateStaffMember(req CreateStaffRequest) (*models.StaffMember, error)
	GetStaffMemberByID(staffID int64) (*models.StaffMember, error)
	GetStaffMembers(page, pageSize int) ([]models.StaffMember, int, error)
	UpdateStaffMember(staffID int64, req UpdateStaffRequest) (*models.StaffMember, error)
	DeleteStaffMember(staffID int64) error
}

type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

func NewStaffService(repo repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: repo, db: db}
}

func (s *staffService) CreateStaffMember(req CreateStaffRequest) (*models.StaffMember, error) {
	if req.HireDate != nil {
		if err := parseDateField("hire_date", *req.HireDate); err != nil {
			return nil, err
		}
	}
	staff := &models.StaffMember{
		UserID:      req.UserID,
		PhoneNumber: req.PhoneNumber,
		Position:    req.Position,
		HireDate:    req.HireDate,
		Notes:       req.Notes,
	}
	id, err := s.staffRepo.CreateStaffMember(s.db, staff)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrStaffConflict, err.Error())
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: user_id does not exist", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return s.staffRepo.GetStaffMemberByID(id)
}

func (s *staffService) GetStaffMemberByID(staffID int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMembers(page, pageSize int) ([]models.StaffMember, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	staff, totalCount, err := s.staffRepo.GetStaffMembers(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get staff members: %w", err)
	}
	return staff, totalCount, nil
}

func (s *staffService) UpdateStaffMember(staffID int64, req UpdateStaffRequest) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to find staff member for update: %w", err)
	}

	if req.PhoneNumber != nil {
		staff.PhoneNumber = req.PhoneNumber
	}
	if req.Position != nil {
		staff.Position = req.Position
	}
	if req.HireDate != nil {
		if err := parseDateField("hire_date", *req.HireDate); err != nil {
			return nil, err
		}
		staff.HireDate = req.HireDate
	}
	if req.Notes != nil {
		staff.Notes = req.Notes
	}

	if err := s.staffRepo.UpdateStaffMember(s.db, staff); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	return s.staffRepo.GetStaffMemberByID(staffID)
}

func (s *staffService) DeleteStaffMember(staffID int64) error {
	err := s.staffRepo.DeleteStaffMember(s.db, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: %s", ErrStaffReferenced, err.Error())
		}
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return nil
}
