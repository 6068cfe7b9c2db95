package memory

import (
	"context"
	"time"

	"payaso-portal/internal/core/domain"
)

type graduationRepository struct {
	s *Store
}

// decorate must be called with the lock held
func (r *graduationRepository) decorate(g *domain.GraduationRequest) domain.GraduationRequest {
	out := *g
	out.Stats.GraduationRequested = true
	if u, ok := r.s.users[g.UserID]; ok {
		out.UserFullName = u.FullName
		out.UserPhoto = u.PhotoURL
	}
	return out
}

func (r *graduationRepository) Create(ctx context.Context, req *domain.GraduationRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req.ID = newID(req.ID)
	if _, ok := r.s.graduations[req.ID]; ok {
		return domain.ErrDuplicateEntry
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = r.s.now()
	}
	row := *req
	r.s.graduations[row.ID] = &row
	r.s.gradOrder = append(r.s.gradOrder, row.ID)
	return nil
}

func (r *graduationRepository) GetByID(ctx context.Context, id string) (*domain.GraduationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.graduations[id]
	if !ok {
		return nil, domain.ErrGraduationNotFound
	}
	out := r.decorate(g)
	return &out, nil
}

func (r *graduationRepository) GetLatestByUser(ctx context.Context, userID string) (*domain.GraduationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *domain.GraduationRequest
	for _, id := range r.s.gradOrder {
		g := r.s.graduations[id]
		if g.UserID != userID {
			continue
		}
		if latest == nil || !g.RequestedAt.Before(latest.RequestedAt) {
			latest = g
		}
	}
	if latest == nil {
		return nil, domain.ErrGraduationNotFound
	}
	out := r.decorate(latest)
	return &out, nil
}

func (r *graduationRepository) ListByStatus(ctx context.Context, status domain.GraduationStatus) ([]domain.GraduationRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.GraduationRequest, 0)
	for _, id := range r.s.gradOrder {
		if g := r.s.graduations[id]; g.Status == status {
			out = append(out, r.decorate(g))
		}
	}
	return out, nil
}

func (r *graduationRepository) Reject(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.resolve(id, domain.GraduationRejected, at)
	return err
}

func (r *graduationRepository) Approve(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.graduations[id]
	if !ok {
		return domain.ErrGraduationNotFound
	}
	u, ok := r.s.users[g.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}

	if _, err := r.resolve(id, domain.GraduationApproved, at); err != nil {
		return err
	}

	roles := make([]domain.Role, 0, len(u.AvailableRoles)+1)
	for _, role := range u.AvailableRoles {
		if role != domain.RoleRecruit && role != domain.RoleDrPayaso {
			roles = append(roles, role)
		}
	}
	u.AvailableRoles = append(roles, domain.RoleDrPayaso)
	if u.Role == domain.RoleRecruit {
		u.Role = domain.RoleDrPayaso
	}
	return nil
}

// resolve must be called with the write lock held
func (r *graduationRepository) resolve(id string, status domain.GraduationStatus, at time.Time) (*domain.GraduationRequest, error) {
	g, ok := r.s.graduations[id]
	if !ok {
		return nil, domain.ErrGraduationNotFound
	}
	resolved := at
	g.Status = status
	g.ResolvedAt = &resolved
	return g, nil
}
