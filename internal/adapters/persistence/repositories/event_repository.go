package repositories

import (
	"context"
	"errors"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/core/domain"

	"gorm.io/gorm"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

type bucketCount struct {
	EventID string
	Bucket  string
	Total   int
}

// occupancy counts registrations per event and bucket
func (r *eventRepository) occupancy(ctx context.Context, eventIDs ...string) (map[string]domain.RoleCapacity, error) {
	var rows []bucketCount
	query := r.db.WithContext(ctx).Model(&models.Registration{}).
		Select("event_id, bucket, COUNT(*) AS total").
		Group("event_id, bucket")
	if len(eventIDs) > 0 {
		query = query.Where("event_id IN ?", eventIDs)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]domain.RoleCapacity)
	for _, row := range rows {
		taken := out[row.EventID]
		taken.Add(domain.CapacityBucket(row.Bucket), row.Total)
		out[row.EventID] = taken
	}
	return out, nil
}

// List returns every event ordered by date
func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	var rows []*models.Event
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	taken, err := r.occupancy(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		e := row.ToDomain()
		e.SetOccupancy(taken[e.ID])
		events = append(events, *e)
	}
	return events, nil
}

// GetByID gets an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var row models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	taken, err := r.occupancy(ctx, id)
	if err != nil {
		return nil, err
	}

	e := row.ToDomain()
	e.SetOccupancy(taken[id])
	return e, nil
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	row := models.EventFromDomain(event)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	event.ID = row.ID
	return nil
}

// GetRegistration gets one registration
func (r *eventRepository) GetRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	var row models.Registration
	err := r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRegistrationMissing
		}
		return nil, err
	}
	reg := row.ToDomain()
	return &reg, nil
}

// Registrations lists registrations of an event
func (r *eventRepository) Registrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	return r.registrations(ctx, "event_id = ?", eventID)
}

// RegistrationsByUser lists registrations of a user
func (r *eventRepository) RegistrationsByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	return r.registrations(ctx, "user_id = ?", userID)
}

func (r *eventRepository) registrations(ctx context.Context, query string, arg string) ([]domain.Registration, error) {
	var rows []*models.Registration
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	regs := make([]domain.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, row.ToDomain())
	}
	return regs, nil
}

// Register inserts a registration, rejecting duplicates
func (r *eventRepository) Register(ctx context.Context, reg *domain.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND user_id = ?", reg.EventID, reg.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrAlreadyRegistered
		}

		status := reg.Status
		if status == domain.StatusUnregistered {
			status = domain.StatusRegistered
		}
		row := &models.Registration{
			EventID: reg.EventID,
			UserID:  reg.UserID,
			Bucket:  string(reg.Bucket),
			Status:  string(status),
		}
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyRegistered
			}
			return err
		}
		reg.Status = status
		reg.CreatedAt = row.CreatedAt
		return nil
	})
}

// Unregister deletes a registration
func (r *eventRepository) Unregister(ctx context.Context, eventID, userID string) error {
	result := r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.Registration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRegistrationMissing
	}
	return nil
}

// SetAttendance updates the attendance status of a registration
func (r *eventRepository) SetAttendance(ctx context.Context, eventID, userID string, status domain.AttendanceStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetRegistration(ctx, eventID, userID); err != nil {
			return err
		}
	}
	return nil
}

// CountAttended counts attended registrations of a user for one event type
func (r *eventRepository) CountAttended(ctx context.Context, userID string, eventType domain.EventType) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Registration{}).
		Joins("JOIN eventos ON eventos.id = registros_eventos.event_id").
		Where("registros_eventos.user_id = ? AND registros_eventos.status = ? AND eventos.type = ?",
			userID, string(domain.StatusAttended), string(eventType)).
		Count(&count).Error
	return int(count), err
}
