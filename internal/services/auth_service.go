package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Auth ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrRoleNotFound       = errors.New("role not found")
)

// --- Auth DTOs ---

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3"`
	Password string  `json:"password" binding:"required,min=8"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"` // defaults to Staff
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair is returned on successful login.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// --- AuthService Interface ---
type AuthService interface {
	Register(req RegisterRequest) (*models.User, error)
	Login(req LoginRequest) (*TokenPair, error)
	GetUserByID(userID int64) (*models.User, error)
	GetUsers(page, pageSize int) ([]models.User, int, error)
}

type authService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
}

func NewAuthService(repo repositories.AuthRepository, db *sql.DB) AuthService {
	return &authService{authRepo: repo, db: db}
}

func (s *authService) Register(req RegisterRequest) (*models.User, error) {
	if utils.IsEmpty(req.Username) {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, 8) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if req.Email != nil && !utils.IsValidEmail(*req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrValidation)
	}

	roleName := "Staff"
	if req.Role != nil && *req.Role != "" {
		roleName = *req.Role
	}
	role, err := s.authRepo.GetRoleByName(roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, roleName)
		}
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FullName:     req.FullName,
		RoleID:       &role.ID,
		IsActive:     true,
	}
	id, err := s.authRepo.CreateUser(s.db, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, err.Error())
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return s.authRepo.GetUserByID(id)
}

func (s *authService) Login(req LoginRequest) (*TokenPair, error) {
	user, err := s.authRepo.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

func (s *authService) GetUserByID(userID int64) (*models.User, error) {
	user, err := s.authRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) GetUsers(page, pageSize int) ([]models.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	users, totalCount, err := s.authRepo.GetUsers(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get users: %w", err)
	}
	return users, totalCount, nil
}
