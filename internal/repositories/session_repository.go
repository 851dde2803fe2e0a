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

// SessionFilters narrows session listings.
type SessionFilters struct {
	StaffID  *int64
	MenteeID *int64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// SessionRepository defines the interface for mentorship session database operations.
type SessionRepository interface {
	CreateSession(executor SQLExecutor, session *models.Session) (int64, error)
	GetSessionByID(id int64) (*models.Session, error)
	GetSessions(filters SessionFilters) ([]models.Session, int, error)
	UpdateSession(executor SQLExecutor, session *models.Session) error
	DeleteSession(executor SQLExecutor, id int64) error
	CountOverlapping(staffID int64, start, end time.Time, excludeID *int64) (int, error)
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(executor SQLExecutor, session *models.Session) (int64, error) {
	query := `INSERT INTO sessions (staff_id, mentee_id, start_time, end_time, location, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		session.StaffID, session.MenteeID, session.StartTime, session.EndTime,
		session.Location, session.Notes, currentTime, currentTime,
	).Scan(&session.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: staff_id or mentee_id does not reference an existing row (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating session: %v", ErrDatabaseError, err)
	}
	return session.ID, nil
}

func (r *sessionRepository) GetSessionByID(id int64) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT s.id, s.staff_id, s.mentee_id, s.start_time, s.end_time, s.location, s.notes,
	                 s.created_at, s.updated_at,
	                 u.full_name, m.full_name
	          FROM sessions s
	          JOIN staff_members sm ON s.staff_id = sm.id
	          LEFT JOIN users u ON sm.user_id = u.id
	          JOIN mentees m ON s.mentee_id = m.id
	          WHERE s.id = $1`

	var staffName sql.NullString
	var menteeName string

	err := r.db.QueryRow(query, id).Scan(
		&session.ID, &session.StaffID, &session.MenteeID, &session.StartTime, &session.EndTime,
		&session.Location, &session.Notes, &session.CreatedAt, &session.UpdatedAt,
		&staffName, &menteeName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting session by ID %d: %v", ErrDatabaseError, id, err)
	}
	staff := &models.StaffMember{ID: session.StaffID}
	if staffName.Valid {
		staff.User = &models.User{FullName: &staffName.String}
	}
	session.Staff = staff
	session.Mentee = &models.Mentee{ID: session.MenteeID, FullName: menteeName}
	return session, nil
}

func (r *sessionRepository) GetSessions(filters SessionFilters) ([]models.Session, int, error) {
	sessions := []models.Session{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT s.id, s.staff_id, s.mentee_id, s.start_time, s.end_time, s.location, s.notes,
	       s.created_at, s.updated_at,
	       u.full_name, m.full_name,
	       COUNT(*) OVER() AS total_count
	  FROM sessions s
	  JOIN staff_members sm ON s.staff_id = sm.id
	  LEFT JOIN users u ON sm.user_id = u.id
	  JOIN mentees m ON s.mentee_id = m.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("s.staff_id = $%d", argCount))
		args = append(args, *filters.StaffID)
		argCount++
	}
	if filters.MenteeID != nil {
		conditions = append(conditions, fmt.Sprintf("s.mentee_id = $%d", argCount))
		args = append(args, *filters.MenteeID)
		argCount++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("s.start_time >= $%d", argCount))
		args = append(args, *filters.From)
		argCount++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("s.start_time < $%d", argCount))
		args = append(args, *filters.To)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY s.start_time DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting sessions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var session models.Session
		var staffName sql.NullString
		var menteeName string
		if err := rows.Scan(
			&session.ID, &session.StaffID, &session.MenteeID, &session.StartTime, &session.EndTime,
			&session.Location, &session.Notes, &session.CreatedAt, &session.UpdatedAt,
			&staffName, &menteeName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning session: %v", ErrDatabaseError, err)
		}
		staff := &models.StaffMember{ID: session.StaffID}
		if staffName.Valid {
			staff.User = &models.User{FullName: &staffName.String}
		}
		session.Staff = staff
		session.Mentee = &models.Mentee{ID: session.MenteeID, FullName: menteeName}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating sessions: %v", ErrDatabaseError, err)
	}
	return sessions, totalCount, nil
}

func (r *sessionRepository) UpdateSession(executor SQLExecutor, session *models.Session) error {
	query := `UPDATE sessions SET staff_id = $1, mentee_id = $2, start_time = $3, end_time = $4,
	            location = $5, notes = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		session.StaffID, session.MenteeID, session.StartTime, session.EndTime,
		session.Location, session.Notes, time.Now(), session.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: staff_id or mentee_id does not reference an existing row (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating session ID %d: %v", ErrDatabaseError, session.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepository) DeleteSession(executor SQLExecutor, id int64) error {
	query := `DELETE FROM sessions WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting session ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOverlapping reports how many sessions for the staff member intersect
// the [start, end) window, optionally excluding one session (used on update).
func (r *sessionRepository) CountOverlapping(staffID int64, start, end time.Time, excludeID *int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sessions WHERE staff_id = $1 AND start_time < $2 AND end_time > $3`
	args := []interface{}{staffID, end, start}
	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}
	err := r.db.QueryRow(query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting overlapping sessions for staff %d: %v", ErrDatabaseError, staffID, err)
	}
	return count, nil
}
