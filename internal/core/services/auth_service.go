package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/jwt"
	"payaso-portal/internal/pkg/password"
	"payaso-portal/internal/pkg/validator"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrRoleNotAvailable   = errors.New("role is not assigned to this user")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(store *repositories.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: store.Users,
		cfg:      cfg,
	}
}

// LoginInput represents login input; identifier is an email or a cédula
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required,notblank"`
	Password   string `json:"password" validate:"required"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// SwitchRoleInput represents active role switch input
type SwitchRoleInput struct {
	Role string `json:"role" validate:"required,role"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Login authenticates a user by email or cédula
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	// 1. Find user by email or cédula
	identifier := strings.TrimSpace(input.Identifier)
	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByNationalID(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// 4. Repair an active role that is no longer assigned
	if !user.HasRole(user.Role) {
		user.Role = domain.PrimaryRole(user.AvailableRoles)
		if err := s.userRepo.SetActiveRole(ctx, user.ID, user.Role); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ User logged in: %s [%s]", user.Email, user.Role)
	return s.issue(user)
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password and stores a new one
func (s *AuthService) ChangePassword(ctx context.Context, userID string, input *ChangePasswordInput) error {
	if err := validator.Struct(input); err != nil {
		return err
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrPasswordTooShort
	}
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !password.Verify(input.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetPassword(ctx, userID, hashed); err != nil {
		return err
	}

	log.Printf("✅ Password changed: %s", user.Email)
	return nil
}

// SwitchRole changes the active role and reissues the access token
func (s *AuthService) SwitchRole(ctx context.Context, userID string, input *SwitchRoleInput) (*AuthResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	role, _ := domain.ParseRole(input.Role)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(role) {
		return nil, ErrRoleNotAvailable
	}

	if user.Role != role {
		if err := s.userRepo.SetActiveRole(ctx, userID, role); err != nil {
			return nil, err
		}
		user.Role = role
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, expiresAt, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
