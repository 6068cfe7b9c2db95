package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/core/domain"

	"gorm.io/gorm"
)

// graduationRepository implements GraduationRepository interface
type graduationRepository struct {
	db *gorm.DB
}

// NewGraduationRepository creates a new graduation repository
func NewGraduationRepository(db *gorm.DB) GraduationRepository {
	return &graduationRepository{db: db}
}

// Create stores a new request with its stats snapshot
func (r *graduationRepository) Create(ctx context.Context, req *domain.GraduationRequest) error {
	row := &models.GraduationRequest{
		ID:            req.ID,
		UserID:        req.UserID,
		TrainingHours: req.Stats.TrainingHours,
		VisitsCount:   req.Stats.VisitsCount,
		Status:        string(req.Status),
		RequestedAt:   req.RequestedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	req.ID = row.ID
	return nil
}

// GetByID gets a request by ID
func (r *graduationRepository) GetByID(ctx context.Context, id string) (*domain.GraduationRequest, error) {
	var row models.GraduationRequest
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGraduationNotFound
		}
		return nil, err
	}
	req := row.ToDomain()
	return &req, nil
}

// GetLatestByUser gets the most recent request of a user
func (r *graduationRepository) GetLatestByUser(ctx context.Context, userID string) (*domain.GraduationRequest, error) {
	var row models.GraduationRequest
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGraduationNotFound
		}
		return nil, err
	}
	req := row.ToDomain()
	return &req, nil
}

// ListByStatus lists requests with a given status, oldest first
func (r *graduationRepository) ListByStatus(ctx context.Context, status domain.GraduationStatus) ([]domain.GraduationRequest, error) {
	var rows []*models.GraduationRequest
	err := r.db.WithContext(ctx).Preload("User").
		Where("status = ?", string(status)).
		Order("requested_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	reqs := make([]domain.GraduationRequest, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.ToDomain())
	}
	return reqs, nil
}

// Reject marks a request rejected
func (r *graduationRepository) Reject(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := r.resolve(tx, id, domain.GraduationRejected, at)
		return err
	})
}

// Approve marks a request approved and swaps recruit for dr_payaso in one transaction
func (r *graduationRepository) Approve(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.resolve(tx, id, domain.GraduationApproved, at)
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND role = ?", row.UserID, string(domain.RoleRecruit)).
			Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("drop recruit role: %w", err)
		}

		var count int64
		if err := tx.Model(&models.UserRole{}).
			Where("user_id = ? AND role = ?", row.UserID, string(domain.RoleDrPayaso)).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			role := &models.UserRole{UserID: row.UserID, Role: string(domain.RoleDrPayaso)}
			if err := tx.Create(role).Error; err != nil {
				return fmt.Errorf("grant dr_payaso role: %w", err)
			}
		}

		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", row.UserID, string(domain.RoleRecruit)).
			Update("role", string(domain.RoleDrPayaso)).Error
	})
}

// resolve moves a pending request to its final status
func (r *graduationRepository) resolve(tx *gorm.DB, id string, status domain.GraduationStatus, at time.Time) (*models.GraduationRequest, error) {
	var row models.GraduationRequest
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGraduationNotFound
		}
		return nil, err
	}

	resolvedAt := at
	if err := tx.Model(&row).Updates(map[string]interface{}{
		"status":      string(status),
		"resolved_at": &resolvedAt,
	}).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
