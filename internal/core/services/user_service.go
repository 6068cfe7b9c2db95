package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/password"
	"payaso-portal/internal/pkg/validator"
)

// User service errors
var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrNationalIDAlreadyExists = errors.New("cédula already exists")
	ErrInvalidStatus           = errors.New("invalid status")
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store) *UserService {
	return &UserService{userRepo: store.Users}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page   int
	Limit  int
	Search string
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []domain.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	Email          string   `json:"email" validate:"required,email"`
	NationalID     string   `json:"cedula" validate:"required,notblank"`
	FullName       string   `json:"full_name" validate:"required,notblank"`
	Password       string   `json:"password" validate:"required,min=6"`
	Phone          string   `json:"phone"`
	WhatsApp       string   `json:"whatsapp"`
	Roles          []string `json:"roles" validate:"required,min=1,role"`
	ArtisticName   string   `json:"artistic_name"`
	ValidUntil     string   `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	ExemptFromFees bool     `json:"exempt_from_fees"`
	AdminNotes     string   `json:"admin_notes"`
	Skills         string   `json:"skills"`
	Address        string   `json:"address"`
}

// UpdateProfileInput represents a partial profile update; nil fields are kept
type UpdateProfileInput struct {
	Email             *string `json:"email" validate:"omitempty,email"`
	NationalID        *string `json:"cedula" validate:"omitempty,notblank"`
	FullName          *string `json:"full_name" validate:"omitempty,notblank"`
	Phone             *string `json:"phone"`
	WhatsApp          *string `json:"whatsapp"`
	PhotoURL          *string `json:"photo_url" validate:"omitempty,url"`
	CharacterPhotoURL *string `json:"character_photo_url" validate:"omitempty,url"`
	ArtisticName      *string `json:"artistic_name"`
	ValidUntil        *string `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	ExemptFromFees    *bool   `json:"exempt_from_fees"`
	AdminNotes        *string `json:"admin_notes"`
	Skills            *string `json:"skills"`
	Address           *string `json:"address"`
}

// UpdateRolesInput replaces every role assignment of a user
type UpdateRolesInput struct {
	Roles             []string `json:"roles" validate:"required,min=1,role"`
	ActiveRole        string   `json:"active_role" validate:"omitempty,role"`
	ArtisticName      *string  `json:"artistic_name"`
	CharacterPhotoURL *string  `json:"character_photo_url" validate:"omitempty,url"`
}

// UpdateStatusInput represents account status change input
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ListUsers lists users with pagination and an optional search term
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	// Set defaults
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}

	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Search: strings.TrimSpace(input.Search),
		Offset: (input.Page - 1) * input.Limit,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      users,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUser gets a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// CreateUser creates a volunteer account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*domain.User, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	// 1. Check uniqueness
	email := strings.ToLower(strings.TrimSpace(input.Email))
	nationalID := strings.TrimSpace(input.NationalID)
	if err := s.ensureUnique(ctx, "", email, nationalID); err != nil {
		return nil, err
	}

	// 2. Hash password
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user with its highest priority role active
	roles := parseRoles(input.Roles)
	user := &domain.User{
		Email:          email,
		NationalID:     nationalID,
		FullName:       strings.TrimSpace(input.FullName),
		Phone:          input.Phone,
		WhatsApp:       input.WhatsApp,
		Role:           domain.PrimaryRole(roles),
		AvailableRoles: roles,
		Status:         domain.UserActive,
		ValidUntil:     input.ValidUntil,
		ExemptFromFees: input.ExemptFromFees,
		AdminNotes:     input.AdminNotes,
		Skills:         input.Skills,
		Address:        input.Address,
		PasswordHash:   hashed,
	}
	if containsRole(roles, domain.RoleDrPayaso) {
		user.ArtisticName = strings.TrimSpace(input.ArtisticName)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	log.Printf("✅ User created: %s [%s]", user.Email, user.Role)
	return user, nil
}

// UpdateProfile applies a partial profile update
func (s *UserService) UpdateProfile(ctx context.Context, id string, input *UpdateProfileInput) (*domain.User, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Identity changes must stay unique
	email, nationalID := "", ""
	if input.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*input.Email))
		if email == user.Email {
			email = ""
		}
	}
	if input.NationalID != nil {
		nationalID = strings.TrimSpace(*input.NationalID)
		if nationalID == user.NationalID {
			nationalID = ""
		}
	}
	if err := s.ensureUnique(ctx, id, email, nationalID); err != nil {
		return nil, err
	}
	if email != "" {
		user.Email = email
	}
	if nationalID != "" {
		user.NationalID = nationalID
	}

	setString(&user.FullName, input.FullName)
	setString(&user.Phone, input.Phone)
	setString(&user.WhatsApp, input.WhatsApp)
	setString(&user.PhotoURL, input.PhotoURL)
	setString(&user.CharacterPhotoURL, input.CharacterPhotoURL)
	setString(&user.ArtisticName, input.ArtisticName)
	setString(&user.ValidUntil, input.ValidUntil)
	setString(&user.AdminNotes, input.AdminNotes)
	setString(&user.Skills, input.Skills)
	setString(&user.Address, input.Address)
	if input.ExemptFromFees != nil {
		user.ExemptFromFees = *input.ExemptFromFees
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Profile updated: %s", user.Email)
	return user, nil
}

// UpdateStatus activates or deactivates an account
func (s *UserService) UpdateStatus(ctx context.Context, id string, input *UpdateStatusInput) (*domain.User, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	status := domain.UserStatus(input.Status)
	if status != domain.UserActive && status != domain.UserInactive {
		return nil, ErrInvalidStatus
	}
	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	log.Printf("✅ User %s status set to %s", id, status)
	return s.userRepo.GetByID(ctx, id)
}

// UpdateRoles replaces every role of a user in one step.
// The active role is kept when still assigned, otherwise the highest priority role wins.
func (s *UserService) UpdateRoles(ctx context.Context, id string, input *UpdateRolesInput) (*domain.User, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 1. Pick the active role
	roles := parseRoles(input.Roles)
	active := domain.PrimaryRole(roles)
	if requested, ok := domain.ParseRole(input.ActiveRole); ok && containsRole(roles, requested) {
		active = requested
	} else if containsRole(roles, user.Role) {
		active = user.Role
	}

	// 2. Replace the assignments atomically
	if err := s.userRepo.ReplaceRoles(ctx, id, roles, active); err != nil {
		return nil, err
	}

	// 3. Dr. Payaso persona
	if containsRole(roles, domain.RoleDrPayaso) && (input.ArtisticName != nil || input.CharacterPhotoURL != nil) {
		setString(&user.ArtisticName, input.ArtisticName)
		setString(&user.CharacterPhotoURL, input.CharacterPhotoURL)
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Roles replaced for %s: %v (active %s)", user.Email, roles, active)
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ensureUnique(ctx context.Context, selfID, email, nationalID string) error {
	if email != "" {
		if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing.ID != selfID {
			return ErrEmailAlreadyExists
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
	}
	if nationalID != "" {
		if existing, err := s.userRepo.GetByNationalID(ctx, nationalID); err == nil && existing.ID != selfID {
			return ErrNationalIDAlreadyExists
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
	}
	return nil
}

// parseRoles converts validated role codes, dropping duplicates
func parseRoles(codes []string) []domain.Role {
	roles := make([]domain.Role, 0, len(codes))
	for _, code := range codes {
		role, ok := domain.ParseRole(code)
		if ok && !containsRole(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles
}

func containsRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
