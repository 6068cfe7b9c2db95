package repositories

import (
	"context"
	"errors"
	"time"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// List returns every payment, newest first
func (r *paymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByUser returns the payments of one user, newest first
func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *paymentRepository) find(query *gorm.DB) ([]domain.Payment, error) {
	var rows []*models.Payment
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	payments := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.ToDomain())
	}
	return payments, nil
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var row models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	p := row.ToDomain()
	return &p, nil
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	row := models.PaymentFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	payment.ID = row.ID
	payment.CreatedAt = row.CreatedAt
	return nil
}

// UpdateStatus sets status and, when given, the paid date
func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, datePaid *time.Time) error {
	updates := map[string]interface{}{"status": string(status)}
	if datePaid != nil {
		updates["date_paid"] = *datePaid
	}

	result := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
