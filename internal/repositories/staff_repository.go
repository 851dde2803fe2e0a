package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"time"

	"github.com/lib/pq"
)

// StaffRepository defines the interface for staff member database operations.
type StaffRepository interface {
	CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMemberByUserID(userID int64) (*models.StaffMember, error)
	GetStaffMembers(page, pageSize int) ([]models.StaffMember, int, error)
	UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error
	DeleteStaffMember(executor SQLExecutor, id int64) error
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error) {
	query := `INSERT INTO staff_members (user_id, phone_number, position, hire_date, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		staff.UserID, staff.PhoneNumber, staff.Position, staff.HireDate, staff.Notes,
		currentTime, currentTime,
	).Scan(&staff.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: staff member already exists for this user (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: user_id does not reference an existing user (constraint: %s)", ErrForeignKey, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return staff.ID, nil
}

func (r *staffRepository) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	return r.getStaffMemberBy("sm.id", id)
}

func (r *staffRepository) GetStaffMemberByUserID(userID int64) (*models.StaffMember, error) {
	return r.getStaffMemberBy("sm.user_id", userID)
}

func (r *staffRepository) getStaffMemberBy(column string, value int64) (*models.StaffMember, error) {
	staff := &models.StaffMember{}
	user := &models.User{}
	query := fmt.Sprintf(`SELECT sm.id, sm.user_id, sm.phone_number, sm.position, sm.hire_date, sm.notes,
	                 sm.created_at, sm.updated_at,
	                 u.id, u.username, u.email, u.full_name, u.is_active
	          FROM staff_members sm
	          LEFT JOIN users u ON sm.user_id = u.id
	          WHERE %s = $1`, column)

	var userID sql.NullInt64
	var username, userEmail, userFullName sql.NullString
	var userActive sql.NullBool

	err := r.db.QueryRow(query, value).Scan(
		&staff.ID, &staff.UserID, &staff.PhoneNumber, &staff.Position, &staff.HireDate, &staff.Notes,
		&staff.CreatedAt, &staff.UpdatedAt,
		&userID, &username, &userEmail, &userFullName, &userActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff member: %v", ErrDatabaseError, err)
	}
	if userID.Valid {
		user.ID = userID.Int64
		user.Username = username.String
		if userEmail.Valid {
			user.Email = &userEmail.String
		}
		if userFullName.Valid {
			user.FullName = &userFullName.String
		}
		user.IsActive = userActive.Bool
		staff.User = user
	}
	return staff, nil
}

func (r *staffRepository) GetStaffMembers(page, pageSize int) ([]models.StaffMember, int, error) {
	staffMembers := []models.StaffMember{}
	totalCount := 0
	query := `SELECT sm.id, sm.user_id, sm.phone_number, sm.position, sm.hire_date, sm.notes,
	                 sm.created_at, sm.updated_at,
	                 u.id, u.username, u.email, u.full_name, u.is_active,
	                 COUNT(*) OVER() AS total_count
	          FROM staff_members sm
	          LEFT JOIN users u ON sm.user_id = u.id
	          ORDER BY sm.id
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting staff members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staff models.StaffMember
		var userID sql.NullInt64
		var username, userEmail, userFullName sql.NullString
		var userActive sql.NullBool
		if err := rows.Scan(
			&staff.ID, &staff.UserID, &staff.PhoneNumber, &staff.Position, &staff.HireDate, &staff.Notes,
			&staff.CreatedAt, &staff.UpdatedAt,
			&userID, &username, &userEmail, &userFullName, &userActive,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		if userID.Valid {
			user := &models.User{ID: userID.Int64, Username: username.String, IsActive: userActive.Bool}
			if userEmail.Valid {
				user.Email = &userEmail.String
			}
			if userFullName.Valid {
				user.FullName = &userFullName.String
			}
			staff.User = user
		}
		staffMembers = append(staffMembers, staff)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating staff members: %v", ErrDatabaseError, err)
	}
	return staffMembers, totalCount, nil
}

func (r *staffRepository) UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error {
	query := `UPDATE staff_members SET phone_number = $1, position = $2, hire_date = $3, notes = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query,
		staff.PhoneNumber, staff.Position, staff.HireDate, staff.Notes, time.Now(), staff.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating staff member ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) DeleteStaffMember(executor SQLExecutor, id int64) error {
	query := `DELETE FROM staff_members WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: staff member ID %d is referenced by other records (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting staff member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
