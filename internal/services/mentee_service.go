package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"strings"
)

// --- Custom Service Errors for Mentees ---
var (
	ErrMenteeNotFound   = errors.New("mentee not found")
	ErrMenteeReferenced = errors.New("mentee is referenced by other records")
	ErrMentorNotFound   = errors.New("mentor staff member not found")
)

// --- Mentee DTOs ---

type CreateMenteeRequest struct {
	FullName      string  `json:"full_name" binding:"required"`
	DateOfBirth   *string `json:"date_of_birth"`
	GuardianName  *string `json:"guardian_name"`
	GuardianPhone *string `json:"guardian_phone"`
	School        *string `json:"school"`
	Notes         *string `json:"notes"`
	PhotoFileKey  *string `json:"photo_file_key"`
	MentorID      *int64  `json:"mentor_id"`
}

type UpdateMenteeRequest struct {
	FullName      *string `json:"full_name"`
	DateOfBirth   *string `json:"date_of_birth"`
	GuardianName  *string `json:"guardian_name"`
	GuardianPhone *string `json:"guardian_phone"`
	School        *string `json:"school"`
	Notes         *string `json:"notes"`
	PhotoFileKey  *string `json:"photo_file_key"`
	MentorID      *int64  `json:"mentor_id"`
}

type AssignMentorRequest struct {
	StaffID *int64 `json:"staff_id"` // nil clears the assignment
}

// --- MenteeService Interface ---
type MenteeService interface {
	CreateMentee(req CreateMenteeRequest) (*models.Mentee, error)
	GetMenteeByID(menteeID int64) (*models.Mentee, error)
	GetMentees(filters repositories.MenteeFilters) ([]models.Mentee, int, error)
	UpdateMentee(menteeID int64, req UpdateMenteeRequest) (*models.Mentee, error)
	AssignMentor(menteeID int64, req AssignMentorRequest) (*models.Mentee, error)
	DeleteMentee(menteeID int64) error
}

type menteeService struct {
	menteeRepo repositories.MenteeRepository
	staffRepo  repositories.StaffRepository
	db         *sql.DB
}

func NewMenteeService(menteeRepo repositories.MenteeRepository, staffRepo repositories.StaffRepository, db *sql.DB) MenteeService {
	return &menteeService{menteeRepo: menteeRepo, staffRepo: staffRepo, db: db}
}

func (s *menteeService) validateMentor(mentorID *int64) error {
	if mentorID == nil {
		return nil
	}
	if _, err := s.staffRepo.GetStaffMemberByID(*mentorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: staff ID %d", ErrMentorNotFound, *mentorID)
		}
		return fmt.Errorf("failed to validate mentor: %w", err)
	}
	return nil
}

func (s *menteeService) CreateMentee(req CreateMenteeRequest) (*models.Mentee, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name cannot be empty", ErrValidation)
	}
	if req.DateOfBirth != nil {
		if err := parseDateField("date_of_birth", *req.DateOfBirth); err != nil {
			return nil, err
		}
	}
	if err := s.validateMentor(req.MentorID); err != nil {
		return nil, err
	}

	mentee := &models.Mentee{
		FullName:      req.FullName,
		DateOfBirth:   req.DateOfBirth,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		School:        req.School,
		Notes:         req.Notes,
		PhotoFileKey:  req.PhotoFileKey,
		MentorID:      req.MentorID,
	}
	id, err := s.menteeRepo.CreateMentee(s.db, mentee)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: staff ID %v", ErrMentorNotFound, req.MentorID)
		}
		return nil, fmt.Errorf("failed to create mentee: %w", err)
	}
	return s.GetMenteeByID(id)
}

func (s *menteeService) GetMenteeByID(menteeID int64) (*models.Mentee, error) {
	mentee, err := s.menteeRepo.GetMenteeByID(menteeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenteeNotFound
		}
		return nil, fmt.Errorf("failed to get mentee: %w", err)
	}
	return mentee, nil
}

func (s *menteeService) GetMentees(filters repositories.MenteeFilters) ([]models.Mentee, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	mentees, totalCount, err := s.menteeRepo.GetMentees(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get mentees: %w", err)
	}
	return mentees, totalCount, nil
}

func (s *menteeService) UpdateMentee(menteeID int64, req UpdateMenteeRequest) (*models.Mentee, error) {
	mentee, err := s.menteeRepo.GetMenteeByID(menteeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenteeNotFound
		}
		return nil, fmt.Errorf("failed to find mentee for update: %w", err)
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty if provided", ErrValidation)
		}
		mentee.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		if err := parseDateField("date_of_birth", *req.DateOfBirth); err != nil {
			return nil, err
		}
		mentee.DateOfBirth = req.DateOfBirth
	}
	if req.GuardianName != nil {
		mentee.GuardianName = req.GuardianName
	}
	if req.GuardianPhone != nil {
		mentee.GuardianPhone = req.GuardianPhone
	}
	if req.School != nil {
		mentee.School = req.School
	}
	if req.Notes != nil {
		mentee.Notes = req.Notes
	}
	if req.PhotoFileKey != nil {
		mentee.PhotoFileKey = req.PhotoFileKey
	}
	if req.MentorID != nil {
		if err := s.validateMentor(req.MentorID); err != nil {
			return nil, err
		}
		mentee.MentorID = req.MentorID
	}

	if err := s.menteeRepo.UpdateMentee(s.db, mentee); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenteeNotFound
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: staff ID %v", ErrMentorNotFound, mentee.MentorID)
		}
		return nil, fmt.Errorf("failed to update mentee: %w", err)
	}
	return s.GetMenteeByID(menteeID)
}

func (s *menteeService) AssignMentor(menteeID int64, req AssignMentorRequest) (*models.Mentee, error) {
	mentee, err := s.menteeRepo.GetMenteeByID(menteeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenteeNotFound
		}
		return nil, fmt.Errorf("failed to find mentee for mentor assignment: %w", err)
	}
	if err := s.validateMentor(req.StaffID); err != nil {
		return nil, err
	}
	mentee.MentorID = req.StaffID
	if err := s.menteeRepo.UpdateMentee(s.db, mentee); err != nil {
		return nil, fmt.Errorf("failed to assign mentor: %w", err)
	}
	return s.GetMenteeByID(menteeID)
}

func (s *menteeService) DeleteMentee(menteeID int64) error {
	err := s.menteeRepo.DeleteMentee(s.db, menteeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenteeNotFound
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: %s", ErrMenteeReferenced, err.Error())
		}
		return fmt.Errorf("failed to delete mentee: %w", err)
	}
	return nil
}
