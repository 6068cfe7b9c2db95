package memory

import (
	"context"
	"sort"

	"payaso-portal/internal/core/domain"
)

type eventRepository struct {
	s *Store
}

// occupancy must be called with the lock held
func (r *eventRepository) occupancy(eventID string) domain.RoleCapacity {
	var taken domain.RoleCapacity
	for key, reg := range r.s.registrations {
		if key.eventID == eventID {
			taken.Add(reg.Bucket, 1)
		}
	}
	return taken
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := make([]domain.Event, 0, len(r.s.events))
	for _, id := range r.s.eventOrder {
		e := *r.s.events[id]
		e.SetOccupancy(r.occupancy(id))
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e := *stored
	e.SetOccupancy(r.occupancy(id))
	return &e, nil
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event.ID = newID(event.ID)
	if _, ok := r.s.events[event.ID]; ok {
		return domain.ErrDuplicateEntry
	}

	row := *event
	row.Taken = domain.RoleCapacity{}
	row.Registered = false
	row.ViewerStatus = domain.StatusUnregistered
	r.s.events[row.ID] = &row
	r.s.eventOrder = append(r.s.eventOrder, row.ID)
	return nil
}

func (r *eventRepository) GetRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reg, ok := r.s.registrations[regKey{eventID, userID}]
	if !ok {
		return nil, domain.ErrRegistrationMissing
	}
	out := *reg
	return &out, nil
}

func (r *eventRepository) Registrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	return r.registrations(func(k regKey) bool { return k.eventID == eventID }), nil
}

func (r *eventRepository) RegistrationsByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	return r.registrations(func(k regKey) bool { return k.userID == userID }), nil
}

func (r *eventRepository) registrations(match func(regKey) bool) []domain.Registration {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Registration, 0)
	for _, key := range r.s.regOrder {
		if match(key) {
			out = append(out, *r.s.registrations[key])
		}
	}
	return out
}

func (r *eventRepository) Register(ctx context.Context, reg *domain.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := regKey{reg.EventID, reg.UserID}
	if _, ok := r.s.registrations[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	if reg.Status == domain.StatusUnregistered {
		reg.Status = domain.StatusRegistered
	}
	reg.CreatedAt = r.s.now()

	row := *reg
	r.s.registrations[key] = &row
	r.s.regOrder = append(r.s.regOrder, key)
	return nil
}

func (r *eventRepository) Unregister(ctx context.Context, eventID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := regKey{eventID, userID}
	if _, ok := r.s.registrations[key]; !ok {
		return domain.ErrRegistrationMissing
	}
	delete(r.s.registrations, key)
	r.s.regOrder = removeKey(r.s.regOrder, key)
	return nil
}

func (r *eventRepository) SetAttendance(ctx context.Context, eventID, userID string, status domain.AttendanceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reg, ok := r.s.registrations[regKey{eventID, userID}]
	if !ok {
		return domain.ErrRegistrationMissing
	}
	reg.Status = status
	return nil
}

func (r *eventRepository) CountAttended(ctx context.Context, userID string, eventType domain.EventType) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for key, reg := range r.s.registrations {
		if key.userID != userID || reg.Status != domain.StatusAttended {
			continue
		}
		if e, ok := r.s.events[key.eventID]; ok && e.Type == eventType {
			count++
		}
	}
	return count, nil
}
