package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"time"

	"github.com/lib/pq"
)

// AuthRepository defines the interface for user and role database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (int64, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsers(page, pageSize int) ([]models.User, int, error)
	UpdateUser(executor SQLExecutor, user *models.User) error
	UpdatePasswordHash(executor SQLExecutor, userID int64, passwordHash string) error
	DeleteUser(executor SQLExecutor, id int64) error
	GetRoleByName(name string) (*models.Role, error)
	GetRoleByID(id int64) (*models.Role, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const userSelectColumns = `u.id, u.username, u.email, u.password_hash, u.full_name, u.role_id, u.is_active, u.created_at, u.updated_at,
	       r.id, r.name, r.description`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	role := &models.Role{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FullName,
		&user.RoleID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&role.ID, &role.Name, &role.Description,
	)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, email, password_hash, full_name, role_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.RoleID, user.IsActive,
		currentTime, currentTime,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: username or email already exists (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.ID, nil
}

func (r *authRepository) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          JOIN roles r ON u.role_id = r.id
	          WHERE u.id = $1`
	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %d: %v", ErrDatabaseError, id, err)
	}
	return user, nil
}

func (r *authRepository) GetUserByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          JOIN roles r ON u.role_id = r.id
	          WHERE u.username = $1`
	user, err := scanUser(r.db.QueryRow(query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by username: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func (r *authRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          JOIN roles r ON u.role_id = r.id
	          WHERE u.email = $1`
	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by email: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func (r *authRepository) GetUsers(page, pageSize int) ([]models.User, int, error) {
	users := []models.User{}
	totalCount := 0
	query := `SELECT ` + userSelectColumns + `, COUNT(*) OVER() AS total_count
	          FROM users u
	          JOIN roles r ON u.role_id = r.id
	          ORDER BY u.username
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		var role models.Role
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FullName,
			&user.RoleID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
			&role.ID, &role.Name, &role.Description,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		user.Role = &role
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, totalCount, nil
}

func (r *authRepository) UpdateUser(executor SQLExecutor, user *models.User) error {
	query := `UPDATE users SET username = $1, email = $2, full_name = $3, role_id = $4, is_active = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		user.Username, user.Email, user.FullName, user.RoleID, user.IsActive, time.Now(), user.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: username or email already exists (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating user ID %d: %v", ErrDatabaseError, user.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *authRepository) UpdatePasswordHash(executor SQLExecutor, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("%w: updating password for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *authRepository) DeleteUser(executor SQLExecutor, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: user ID %d is referenced by other records (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting user ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *authRepository) GetRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	query := `SELECT id, name, description FROM roles WHERE name = $1`
	err := r.db.QueryRow(query, name).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting role by name %s: %v", ErrDatabaseError, name, err)
	}
	return role, nil
}

func (r *authRepository) GetRoleByID(id int64) (*models.Role, error) {
	role := &models.Role{}
	query := `SELECT id, name, description FROM roles WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting role by ID %d: %v", ErrDatabaseError, id, err)
	}
	return role, nil
}
