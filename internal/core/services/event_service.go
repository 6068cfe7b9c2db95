package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
	"payaso-portal/internal/pkg/validator"
)

// Event service errors
var (
	ErrEventFull         = engine.ErrEventFull
	ErrInvalidTransition = engine.ErrInvalidTransition
	ErrInvalidAttendance = errors.New("attendance must be attended or absent")
	ErrEmptyVisit        = errors.New("a visit needs at least one place")
)

// EventService handles event listing, registration and attendance
type EventService struct {
	eventRepo    repositories.EventRepository
	userRepo     repositories.UserRepository
	locationRepo repositories.LocationRepository

	// registrations of one event are serialized within the process
	locks sync.Map
}

// NewEventService creates a new event service
func NewEventService(store *repositories.Store) *EventService {
	return &EventService{
		eventRepo:    store.Events,
		userRepo:     store.Users,
		locationRepo: store.Locations,
	}
}

// CreateEventInput represents event creation input
type CreateEventInput struct {
	Type          string              `json:"type" validate:"required,event_type"`
	Title         string              `json:"title" validate:"required,notblank,max=200"`
	Date          time.Time           `json:"date" validate:"required"`
	Location      string              `json:"location"`
	LocationID    string              `json:"location_id"`
	Description   string              `json:"description"`
	Capacity      domain.RoleCapacity `json:"capacity"`
	TotalCapacity int                 `json:"total_capacity" validate:"gte=0"`
}

// MarkAttendanceInput represents attendance marking input
type MarkAttendanceInput struct {
	Status string `json:"status" validate:"required,oneof=attended absent"`
}

// ListForViewer returns the events a viewer may see, decorated with their status
func (s *EventService) ListForViewer(ctx context.Context, viewer Viewer, category engine.Category) ([]domain.Event, error) {
	events, err := s.decorated(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return engine.FilterEvents(events, viewer.Role, category), nil
}

// GetEvent returns one event; hidden events are reported as missing
func (s *EventService) GetEvent(ctx context.Context, viewer Viewer, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, event, viewer.UserID); err != nil {
		return nil, err
	}
	if !event.Registered && !engine.Policy.Visible(event, viewer.Role) {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// CreateEvent creates a training or a visit
func (s *EventService) CreateEvent(ctx context.Context, creatorID string, input *CreateEventInput) (*domain.Event, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Type:          domain.EventType(input.Type),
		Title:         strings.TrimSpace(input.Title),
		Date:          input.Date,
		Location:      strings.TrimSpace(input.Location),
		Description:   input.Description,
		Capacity:      input.Capacity,
		TotalCapacity: input.TotalCapacity,
		CreatedBy:     creatorID,
	}

	// 1. Resolve the location name from the catalogue
	if input.LocationID != "" {
		loc, err := s.locationRepo.GetByID(ctx, input.LocationID)
		if err != nil {
			return nil, err
		}
		event.LocationID = loc.ID
		event.Location = loc.Name
	}

	// 2. Capacity rules per type
	if event.Capacity.Recruit < 0 || event.Capacity.DrPayaso < 0 ||
		event.Capacity.Photographer < 0 || event.Capacity.Volunteer < 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput,
			domain.FieldError{Field: "capacity", Error: "los cupos no pueden ser negativos"})
	}
	if event.Type == domain.EventVisit && event.Capacity.Total() == 0 {
		return nil, ErrEmptyVisit
	}
	engine.Normalize(event)

	// 3. Save
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ Event created: %s [%s] on %s", event.Title, event.Type, event.Date.Format(time.RFC3339))
	return event, nil
}

// Register books the viewer into an event under their active role.
// Registering again is a no-op that returns the current event.
func (s *EventService) Register(ctx context.Context, viewer Viewer, eventID string) (*domain.Event, error) {
	unlock := s.lock(eventID)
	defer unlock()

	// 1. Load event with the viewer's current state
	event, err := s.GetEvent(ctx, viewer, eventID)
	if err != nil {
		return nil, err
	}
	from := event.ViewerStatus

	// 2. Check capacity and the state machine
	to, err := engine.Register(event, viewer.Role, from)
	if err != nil {
		return nil, err
	}
	if to == from {
		return event, nil
	}

	// 3. Persist
	reg := &domain.Registration{
		EventID: eventID,
		UserID:  viewer.UserID,
		Bucket:  engine.Policy.Bucket(viewer.Role),
		Status:  to,
	}
	if err := s.eventRepo.Register(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return s.GetEvent(ctx, viewer, eventID)
		}
		return nil, err
	}

	log.Printf("✅ User %s registered to %s as %s", viewer.UserID, event.Title, reg.Bucket)
	return s.GetEvent(ctx, viewer, eventID)
}

// Unregister frees the viewer's seat. Missing registrations are a no-op;
// registrations with recorded attendance cannot be removed.
func (s *EventService) Unregister(ctx context.Context, viewer Viewer, eventID string) (*domain.Event, error) {
	unlock := s.lock(eventID)
	defer unlock()

	reg, err := s.eventRepo.GetRegistration(ctx, eventID, viewer.UserID)
	if errors.Is(err, domain.ErrRegistrationMissing) {
		return s.GetEvent(ctx, viewer, eventID)
	}
	if err != nil {
		return nil, err
	}

	if _, err := engine.Transition(reg.Status, engine.ActionUnregister); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Unregister(ctx, eventID, viewer.UserID); err != nil && !errors.Is(err, domain.ErrRegistrationMissing) {
		return nil, err
	}

	log.Printf("✅ User %s unregistered from %s", viewer.UserID, eventID)
	return s.GetEvent(ctx, viewer, eventID)
}

// Attendees lists the registrations of an event joined with profiles
func (s *EventService) Attendees(ctx context.Context, eventID string) ([]domain.AttendanceRecord, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	regs, err := s.eventRepo.Registrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.AttendanceRecord, 0, len(regs))
	for _, reg := range regs {
		record := domain.AttendanceRecord{UserID: reg.UserID, Status: reg.Status}
		user, err := s.userRepo.GetByID(ctx, reg.UserID)
		switch {
		case err == nil:
			record.UserFullName = user.DisplayName()
			record.UserRole = string(user.Role)
			record.UserPhoto = user.PhotoURL
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkAttendance records attended or absent for a registered user
func (s *EventService) MarkAttendance(ctx context.Context, eventID, userID string, input *MarkAttendanceInput) (*domain.Registration, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	var action engine.Action
	switch domain.AttendanceStatus(input.Status) {
	case domain.StatusAttended:
		action = engine.ActionMarkAttended
	case domain.StatusAbsent:
		action = engine.ActionMarkAbsent
	default:
		return nil, ErrInvalidAttendance
	}

	reg, err := s.eventRepo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	to, err := engine.Transition(reg.Status, action)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.SetAttendance(ctx, eventID, userID, to); err != nil {
		return nil, err
	}

	reg.Status = to
	log.Printf("✅ Attendance for %s on %s: %s", userID, eventID, to)
	return reg, nil
}

// History splits the viewer's registered events into upcoming and past
func (s *EventService) History(ctx context.Context, viewer Viewer) (engine.History, error) {
	events, err := s.decorated(ctx, viewer.UserID)
	if err != nil {
		return engine.History{}, err
	}
	return engine.PartitionHistory(events, nowFunc()), nil
}

// Stats derives a volunteer's training hours and visit count from attended events
func (s *EventService) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	trainings, err := s.eventRepo.CountAttended(ctx, userID, domain.EventTraining)
	if err != nil {
		return domain.UserStats{}, err
	}
	visits, err := s.eventRepo.CountAttended(ctx, userID, domain.EventVisit)
	if err != nil {
		return domain.UserStats{}, err
	}
	return engine.StatsFromAttendance(trainings, visits), nil
}

// decorated returns every event with the viewer's registration flags set
func (s *EventService) decorated(ctx context.Context, userID string) ([]domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	regs, err := s.eventRepo.RegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := make(map[string]domain.AttendanceStatus, len(regs))
	for _, reg := range regs {
		status[reg.EventID] = reg.Status
	}
	for i := range events {
		engine.Normalize(&events[i])
		events[i].ViewerStatus = status[events[i].ID]
		events[i].Registered = events[i].ViewerStatus != domain.StatusUnregistered
	}
	return events, nil
}

func (s *EventService) decorate(ctx context.Context, event *domain.Event, userID string) error {
	engine.Normalize(event)
	reg, err := s.eventRepo.GetRegistration(ctx, event.ID, userID)
	if errors.Is(err, domain.ErrRegistrationMissing) {
		event.Registered = false
		event.ViewerStatus = domain.StatusUnregistered
		return nil
	}
	if err != nil {
		return err
	}
	event.Registered = true
	event.ViewerStatus = reg.Status
	return nil
}

func (s *EventService) lock(eventID string) func() {
	mu, _ := s.locks.LoadOrStore(eventID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
