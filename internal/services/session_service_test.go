package services

import (
	"testing"
	"time"

	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
)

type mockSessionRepo struct {
	sessions map[int64]*models.Session
	overlaps int
	nextID   int64
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: map[int64]*models.Session{}, nextID: 1}
}

func (m *mockSessionRepo) CreateSession(executor repositories.SQLExecutor, session *models.Session) (int64, error) {
	session.ID = m.nextID
	m.nextID++
	copied := *session
	m.sessions[session.ID] = &copied
	return session.ID, nil
}

func (m *mockSessionRepo) GetSessionByID(id int64) (*models.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *mockSessionRepo) GetSessions(filters repositories.SessionFilters) ([]models.Session, int, error) {
	result := []models.Session{}
	for _, session := range m.sessions {
		result = append(result, *session)
	}
	return result, len(result), nil
}

func (m *mockSessionRepo) UpdateSession(executor repositories.SQLExecutor, session *models.Session) error {
	if _, ok := m.sessions[session.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockSessionRepo) DeleteSession(executor repositories.SQLExecutor, id int64) error {
	if _, ok := m.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) CountOverlapping(staffID int64, start, end time.Time, excludeID *int64) (int, error) {
	return m.overlaps, nil
}

type mockStaffRepo struct {
	known map[int64]bool
}

func (m *mockStaffRepo) CreateStaffMember(executor repositories.SQLExecutor, staff *models.StaffMember) (int64, error) {
	return 1, nil
}

func (m *mockStaffRepo) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	if !m.known[id] {
		return nil, repositories.ErrNotFound
	}
	return &models.StaffMember{ID: id}, nil
}

func (m *mockStaffRepo) GetStaffMemberByUserID(userID int64) (*models.StaffMember, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockStaffRepo) GetStaffMembers(page, pageSize int) ([]models.StaffMember, int, error) {
	return nil, 0, nil
}

func (m *mockStaffRepo) UpdateStaffMember(executor repositories.SQLExecutor, staff *models.StaffMember) error {
	return nil
}

func (m *mockStaffRepo) DeleteStaffMember(executor repositories.SQLExecutor, id int64) error {
	return nil
}

type mockMenteeRepo struct {
	known map[int64]bool
}

func (m *mockMenteeRepo) CreateMentee(executor repositories.SQLExecutor, mentee *models.Mentee) (int64, error) {
	return 1, nil
}

func (m *mockMenteeRepo) GetMenteeByID(id int64) (*models.Mentee, error) {
	if !m.known[id] {
		return nil, repositories.ErrNotFound
	}
	return &models.Mentee{ID: id}, nil
}

func (m *mockMenteeRepo) GetMentees(filters repositories.MenteeFilters) ([]models.Mentee, int, error) {
	return nil, 0, nil
}

func (m *mockMenteeRepo) UpdateMentee(executor repositories.SQLExecutor, mentee *models.Mentee) error {
	return nil
}

func (m *mockMenteeRepo) DeleteMentee(executor repositories.SQLExecutor, id int64) error {
	return nil
}

func sessionRequest() CreateSessionRequest {
	start := time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC)
	return CreateSessionRequest{
		StaffID:   1,
		MenteeID:  2,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

func newSessionServiceForTest(sessions *mockSessionRepo) SessionService {
	staff := &mockStaffRepo{known: map[int64]bool{1: true}}
	mentees := &mockMenteeRepo{known: map[int64]bool{2: true}}
	return NewSessionService(sessions, staff, mentees, nil)
}

func TestCreateSession(t *testing.T) {
	repo := newMockSessionRepo()
	svc := newSessionServiceForTest(repo)

	session, err := svc.CreateSession(sessionRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(1), session.StaffID)
	assert.Equal(t, int64(2), session.MenteeID)
}

func TestCreateSession_OverlapRejected(t *testing.T) {
	repo := newMockSessionRepo()
	repo.overlaps = 1
	svc := newSessionServiceForTest(repo)

	_, err := svc.CreateSession(sessionRequest())

	assert.ErrorIs(t, err, ErrSessionOverlap)
}

func TestCreateSession_EndBeforeStart(t *testing.T) {
	repo := newMockSessionRepo()
	svc := newSessionServiceForTest(repo)

	req := sessionRequest()
	req.EndTime = req.StartTime.Add(-time.Minute)
	_, err := svc.CreateSession(req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSession_TooLong(t *testing.T) {
	repo := newMockSessionRepo()
	svc := newSessionServiceForTest(repo)

	req := sessionRequest()
	req.EndTime = req.StartTime.Add(9 * time.Hour)
	_, err := svc.CreateSession(req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSession_UnknownStaff(t *testing.T) {
	repo := newMockSessionRepo()
	svc := newSessionServiceForTest(repo)

	req := sessionRequest()
	req.StaffID = 99
	_, err := svc.CreateSession(req)

	assert.ErrorIs(t, err, ErrValidation)
}
