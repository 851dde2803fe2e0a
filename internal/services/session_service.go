package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"time"
)

// --- Custom Service Errors for Sessions ---
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionOverlap  = errors.New("session overlaps an existing session for this staff member")
)

// maxSessionDuration caps a single mentorship session.
const maxSessionDuration = 8 * time.Hour

// --- Session DTOs ---

type CreateSessionRequest struct {
	StaffID   int64     `json:"staff_id" binding:"required"`
	MenteeID  int64     `json:"mentee_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Location  *string   `json:"location"`
	Notes     *string   `json:"notes"`
}

type UpdateSessionRequest struct {
	StaffID   *int64     `json:"staff_id"`
	MenteeID  *int64     `json:"mentee_id"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Location  *string    `json:"location"`
	Notes     *string    `json:"notes"`
}

// --- SessionService Interface ---
type SessionService interface {
	CreateSession(req CreateSessionRequest) (*models.Session, error)
	GetSessionByID(sessionID int64) (*models.Session, error)
	GetSessions(filters repositories.SessionFilters) ([]models.Session, int, error)
	UpdateSession(sessionID int64, req UpdateSessionRequest) (*models.Session, error)
	DeleteSession(sessionID int64) error
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	staffRepo   repositories.StaffRepository
	menteeRepo  repositories.MenteeRepository
	db          *sql.DB
}

func NewSessionService(sessionRepo repositories.SessionRepository, staffRepo repositories.StaffRepository, menteeRepo repositories.MenteeRepository, db *sql.DB) SessionService {
	return &sessionService{sessionRepo: sessionRepo, staffRepo: staffRepo, menteeRepo: menteeRepo, db: db}
}

func validateSessionWindow(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	if end.Sub(start) > maxSessionDuration {
		return fmt.Errorf("%w: session cannot exceed %v", ErrValidation, maxSessionDuration)
	}
	return nil
}

func (s *sessionService) checkParticipants(staffID, menteeID int64) error {
	if _, err := s.staffRepo.GetStaffMemberByID(staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: staff ID %d does not exist", ErrValidation, staffID)
		}
		return fmt.Errorf("failed to validate staff member: %w", err)
	}
	if _, err := s.menteeRepo.GetMenteeByID(menteeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: mentee ID %d does not exist", ErrValidation, menteeID)
		}
		return fmt.Errorf("failed to validate mentee: %w", err)
	}
	return nil
}

func (s *sessionService) CreateSession(req CreateSessionRequest) (*models.Session, error) {
	if err := validateSessionWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.checkParticipants(req.StaffID, req.MenteeID); err != nil {
		return nil, err
	}
	overlaps, err := s.sessionRepo.CountOverlapping(req.StaffID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check session overlap: %w", err)
	}
	if overlaps > 0 {
		return nil, ErrSessionOverlap
	}

	session := &models.Session{
		StaffID:   req.StaffID,
		MenteeID:  req.MenteeID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Notes:     req.Notes,
	}
	id, err := s.sessionRepo.CreateSession(s.db, session)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: staff or mentee does not exist", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.sessionRepo.GetSessionByID(id)
}

func (s *sessionService) GetSessionByID(sessionID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *sessionService) GetSessions(filters repositories.SessionFilters) ([]models.Session, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	sessions, totalCount, err := s.sessionRepo.GetSessions(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get sessions: %w", err)
	}
	return sessions, totalCount, nil
}

func (s *sessionService) UpdateSession(sessionID int64, req UpdateSessionRequest) (*models.Session, error) {
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session for update: %w", err)
	}

	if req.StaffID != nil {
		session.StaffID = *req.StaffID
	}
	if req.MenteeID != nil {
		session.MenteeID = *req.MenteeID
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}
	if req.Location != nil {
		session.Location = req.Location
	}
	if req.Notes != nil {
		session.Notes = req.Notes
	}

	if err := validateSessionWindow(session.StartTime, session.EndTime); err != nil {
		return nil, err
	}
	if req.StaffID != nil || req.MenteeID != nil {
		if err := s.checkParticipants(session.StaffID, session.MenteeID); err != nil {
			return nil, err
		}
	}
	overlaps, err := s.sessionRepo.CountOverlapping(session.StaffID, session.StartTime, session.EndTime, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session overlap: %w", err)
	}
	if overlaps > 0 {
		return nil, ErrSessionOverlap
	}

	if err := s.sessionRepo.UpdateSession(s.db, session); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return s.sessionRepo.GetSessionByID(sessionID)
}

func (s *sessionService) DeleteSession(sessionID int64) error {
	err := s.sessionRepo.DeleteSession(s.db, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
