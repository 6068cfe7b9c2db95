package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user together with its role assignments
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEntry
		}
		return err
	}
	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	return nil
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByNationalID gets a user by cédula
func (r *userRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	return r.first(ctx, "cedula = ?", strings.TrimSpace(nationalID))
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToDomain(), nil
}

// List lists users with optional search and pagination
func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error) {
	var rows []*models.User
	var total int64

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.User{})
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR cedula LIKE ? OR LOWER(artistic_name) LIKE ?",
				like, like, like, like)
		}
		return query
	}

	// Count total
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get users with pagination
	page := scoped().Preload("Roles").Order("full_name ASC")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *row.ToDomain())
	}
	return users, total, nil
}

// UpdateProfile updates the editable profile columns of a user
func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"full_name":           user.FullName,
		"email":               user.Email,
		"cedula":              user.NationalID,
		"phone":               user.Phone,
		"whatsapp":            user.WhatsApp,
		"photo_url":           user.PhotoURL,
		"character_photo_url": user.CharacterPhotoURL,
		"artistic_name":       user.ArtisticName,
		"valid_until":         user.ValidUntil,
		"exempt_from_fees":    user.ExemptFromFees,
		"admin_notes":         user.AdminNotes,
		"skills":              user.Skills,
		"address":             user.Address,
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEntry
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.exists(ctx, user.ID)
	}
	return nil
}

// UpdateStatus sets the account status
func (r *userRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return r.updateColumn(ctx, id, "status", string(status))
}

// SetActiveRole sets the active role column
func (r *userRepository) SetActiveRole(ctx context.Context, id string, role domain.Role) error {
	return r.updateColumn(ctx, id, "role", string(role))
}

// SetPassword stores a new password hash
func (r *userRepository) SetPassword(ctx context.Context, id string, hash string) error {
	return r.updateColumn(ctx, id, "password", hash)
}

func (r *userRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

// exists distinguishes "no row" from "value unchanged" after an update
func (r *userRepository) exists(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ReplaceRoles deletes and re-inserts role assignments inside one transaction
func (r *userRepository) ReplaceRoles(ctx context.Context, id string, roles []domain.Role, active domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("delete roles: %w", err)
		}

		rows := make([]models.UserRole, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, models.UserRole{UserID: id, Role: string(role)})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert roles: %w", err)
			}
		}

		return tx.Model(&models.User{}).Where("id = ?", id).Update("role", string(active)).Error
	})
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Count(&count).Error
	return count > 0, err
}

// ExistsByNationalID checks if cédula exists
func (r *userRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("cedula = ?", strings.TrimSpace(nationalID)).Count(&count).Error
	return count > 0, err
}
