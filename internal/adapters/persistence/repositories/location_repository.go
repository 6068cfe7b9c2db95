package repositories

import (
	"context"
	"errors"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/core/domain"

	"gorm.io/gorm"
)

// locationRepository implements LocationRepository interface
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

// List returns locations ordered by name
func (r *locationRepository) List(ctx context.Context, includeInactive bool) ([]domain.Location, error) {
	var rows []*models.Location
	query := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	locations := make([]domain.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, row.ToDomain())
	}
	return locations, nil
}

// GetByID gets a location by ID
func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	var row models.Location
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	l := row.ToDomain()
	return &l, nil
}

// Create creates a new location
func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	row := &models.Location{
		ID:      location.ID,
		Name:    location.Name,
		Address: location.Address,
		Kind:    string(location.Kind),
		Active:  location.Active,
	}
	// gorm skips false on create when the column has a default
	if err := r.db.WithContext(ctx).Select("*").Create(row).Error; err != nil {
		return err
	}
	location.ID = row.ID
	return nil
}

// Update updates name, address and kind
func (r *locationRepository) Update(ctx context.Context, location *domain.Location) error {
	result := r.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", location.ID).Updates(map[string]interface{}{
		"name":    location.Name,
		"address": location.Address,
		"type":    string(location.Kind),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, location.ID); err != nil {
			return err
		}
	}
	return nil
}

// SetActive toggles the active flag
func (r *locationRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).Update("active", active)
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
