package memory

import (
	"context"
	"sort"

	"payaso-portal/internal/core/domain"
)

type locationRepository struct {
	s *Store
}

func (r *locationRepository) List(ctx context.Context, includeInactive bool) ([]domain.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Location, 0, len(r.s.locations))
	for _, id := range r.s.locationOrder {
		l := r.s.locations[id]
		if !includeInactive && !l.Active {
			continue
		}
		out = append(out, *l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.locations[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	out := *l
	return &out, nil
}

func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	location.ID = newID(location.ID)
	if _, ok := r.s.locations[location.ID]; ok {
		return domain.ErrDuplicateEntry
	}
	row := *location
	r.s.locations[row.ID] = &row
	r.s.locationOrder = append(r.s.locationOrder, row.ID)
	return nil
}

func (r *locationRepository) Update(ctx context.Context, location *domain.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.locations[location.ID]
	if !ok {
		return domain.ErrLocationNotFound
	}
	l.Name = location.Name
	l.Address = location.Address
	l.Kind = location.Kind
	return nil
}

func (r *locationRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.locations[id]
	if !ok {
		return domain.ErrLocationNotFound
	}
	l.Active = active
	return nil
}
