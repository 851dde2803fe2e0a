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

// MenteeFilters narrows mentee listings.
type MenteeFilters struct {
	MentorID *int64
	Search   *string // matches full_name or school, case-insensitive
	Page     int
	PageSize int
}

// MenteeRepository defines the interface for mentee database operations.
type MenteeRepository interface {
	CreateMentee(executor SQLExecutor, mentee *models.Mentee) (int64, error)
	GetMenteeByID(id int64) (*models.Mentee, error)
	GetMentees(filters MenteeFilters) ([]models.Mentee, int, error)
	UpdateMentee(executor SQLExecutor, mentee *models.Mentee) error
	DeleteMentee(executor SQLExecutor, id int64) error
}

type menteeRepository struct {
	db *sql.DB
}

// NewMenteeRepository creates a new instance of MenteeRepository.
func NewMenteeRepository(db *sql.DB) MenteeRepository {
	return &menteeRepository{db: db}
}

func (r *menteeRepository) CreateMentee(executor SQLExecutor, mentee *models.Mentee) (int64, error) {
	query := `INSERT INTO mentees
	            (full_name, date_of_birth, guardian_name, guardian_phone, school, notes, photo_file_key, mentor_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		mentee.FullName, mentee.DateOfBirth, mentee.GuardianName, mentee.GuardianPhone,
		mentee.School, mentee.Notes, mentee.PhotoFileKey, mentee.MentorID,
		currentTime, currentTime,
	).Scan(&mentee.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: mentor_id does not reference an existing staff member (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating mentee: %v", ErrDatabaseError, err)
	}
	return mentee.ID, nil
}

func (r *menteeRepository) GetMenteeByID(id int64) (*models.Mentee, error) {
	mentee := &models.Mentee{}
	query := `SELECT m.id, m.full_name, m.date_of_birth, m.guardian_name, m.guardian_phone,
	                 m.school, m.notes, m.photo_file_key, m.mentor_id, m.created_at, m.updated_at,
	                 sm.id, sm.position, u.full_name
	          FROM mentees m
	          LEFT JOIN staff_members sm ON m.mentor_id = sm.id
	          LEFT JOIN users u ON sm.user_id = u.id
	          WHERE m.id = $1`

	var mentorID sql.NullInt64
	var mentorPosition, mentorName sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&mentee.ID, &mentee.FullName, &mentee.DateOfBirth, &mentee.GuardianName, &mentee.GuardianPhone,
		&mentee.School, &mentee.Notes, &mentee.PhotoFileKey, &mentee.MentorID, &mentee.CreatedAt, &mentee.UpdatedAt,
		&mentorID, &mentorPosition, &mentorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting mentee by ID %d: %v", ErrDatabaseError, id, err)
	}
	if mentorID.Valid {
		mentor := &models.StaffMember{ID: mentorID.Int64}
		if mentorPosition.Valid {
			mentor.Position = &mentorPosition.String
		}
		if mentorName.Valid {
			mentor.User = &models.User{FullName: &mentorName.String}
		}
		mentee.Mentor = mentor
	}
	return mentee, nil
}

func (r *menteeRepository) GetMentees(filters MenteeFilters) ([]models.Mentee, int, error) {
	mentees := []models.Mentee{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT m.id, m.full_name, m.date_of_birth, m.guardian_name, m.guardian_phone,
	       m.school, m.notes, m.photo_file_key, m.mentor_id, m.created_at, m.updated_at,
	       sm.id, sm.position, u.full_name,
	       COUNT(*) OVER() AS total_count
	  FROM mentees m
	  LEFT JOIN staff_members sm ON m.mentor_id = sm.id
	  LEFT JOIN users u ON sm.user_id = u.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.MentorID != nil {
		conditions = append(conditions, fmt.Sprintf("m.mentor_id = $%d", argCount))
		args = append(args, *filters.MentorID)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(m.full_name ILIKE $%d OR m.school ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY m.full_name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting mentees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var mentee models.Mentee
		var mentorID sql.NullInt64
		var mentorPosition, mentorName sql.NullString
		if err := rows.Scan(
			&mentee.ID, &mentee.FullName, &mentee.DateOfBirth, &mentee.GuardianName, &mentee.GuardianPhone,
			&mentee.School, &mentee.Notes, &mentee.PhotoFileKey, &mentee.MentorID, &mentee.CreatedAt, &mentee.UpdatedAt,
			&mentorID, &mentorPosition, &mentorName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning mentee: %v", ErrDatabaseError, err)
		}
		if mentorID.Valid {
			mentor := &models.StaffMember{ID: mentorID.Int64}
			if mentorPosition.Valid {
				mentor.Position = &mentorPosition.String
			}
			if mentorName.Valid {
				mentor.User = &models.User{FullName: &mentorName.String}
			}
			mentee.Mentor = mentor
		}
		mentees = append(mentees, mentee)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating mentees: %v", ErrDatabaseError, err)
	}
	return mentees, totalCount, nil
}

func (r *menteeRepository) UpdateMentee(executor SQLExecutor, mentee *models.Mentee) error {
	query := `UPDATE mentees SET
	            full_name = $1, date_of_birth = $2, guardian_name = $3, guardian_phone = $4,
	            school = $5, notes = $6, photo_file_key = $7, mentor_id = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		mentee.FullName, mentee.DateOfBirth, mentee.GuardianName, mentee.GuardianPhone,
		mentee.School, mentee.Notes, mentee.PhotoFileKey, mentee.MentorID, time.Now(), mentee.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: mentor_id does not reference an existing staff member (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating mentee ID %d: %v", ErrDatabaseError, mentee.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menteeRepository) DeleteMentee(executor SQLExecutor, id int64) error {
	query := `DELETE FROM mentees WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: mentee ID %d is referenced by other records (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting mentee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
