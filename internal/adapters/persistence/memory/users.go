package memory

import (
	"context"
	"sort"
	"strings"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
)

type userRepository struct {
	s *Store
}

func copyUser(u *domain.User) domain.User {
	out := *u
	out.AvailableRoles = append([]domain.Role(nil), u.AvailableRoles...)
	return out
}

// sameIdentity reports a clash on email or cédula
func sameIdentity(a, b *domain.User) bool {
	if a.Email != "" && strings.EqualFold(a.Email, b.Email) {
		return true
	}
	return a.NationalID != "" && a.NationalID == b.NationalID
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if sameIdentity(u, user) {
			return domain.ErrDuplicateEntry
		}
	}

	user.ID = newID(user.ID)
	if _, ok := r.s.users[user.ID]; ok {
		return domain.ErrDuplicateEntry
	}
	if user.Status == "" {
		user.Status = domain.UserActive
	}
	if len(user.AvailableRoles) == 0 {
		user.AvailableRoles = []domain.Role{domain.RoleVolunteer}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.now()
	}

	row := copyUser(user)
	r.s.users[row.ID] = &row
	r.s.userOrder = append(r.s.userOrder, row.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	nationalID = strings.TrimSpace(nationalID)
	return r.find(func(u *domain.User) bool { return u.NationalID == nationalID })
}

func (r *userRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; match(u) {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context, filter repositories.UserFilter) ([]domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]domain.User, 0, len(r.s.users))
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if search != "" &&
			!strings.Contains(strings.ToLower(u.FullName), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(u.NationalID, search) &&
			!strings.Contains(strings.ToLower(u.ArtisticName), search) {
			continue
		}
		matched = append(matched, copyUser(u))
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].FullName < matched[j].FullName })

	total := int64(len(matched))
	if filter.Limit > 0 {
		start := filter.Offset
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for id, other := range r.s.users {
		if id == user.ID {
			continue
		}
		if sameIdentity(other, user) {
			return domain.ErrDuplicateEntry
		}
	}

	u.FullName = user.FullName
	u.Email = user.Email
	u.NationalID = user.NationalID
	u.Phone = user.Phone
	u.WhatsApp = user.WhatsApp
	u.PhotoURL = user.PhotoURL
	u.CharacterPhotoURL = user.CharacterPhotoURL
	u.ArtisticName = user.ArtisticName
	u.ValidUntil = user.ValidUntil
	u.ExemptFromFees = user.ExemptFromFees
	u.AdminNotes = user.AdminNotes
	u.Skills = user.Skills
	u.Address = user.Address
	return nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return r.update(id, func(u *domain.User) { u.Status = status })
}

func (r *userRepository) SetActiveRole(ctx context.Context, id string, role domain.Role) error {
	return r.update(id, func(u *domain.User) { u.Role = role })
}

func (r *userRepository) SetPassword(ctx context.Context, id string, hash string) error {
	return r.update(id, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *userRepository) ReplaceRoles(ctx context.Context, id string, roles []domain.Role, active domain.Role) error {
	return r.update(id, func(u *domain.User) {
		u.AvailableRoles = append([]domain.Role(nil), roles...)
		u.Role = active
	})
}

func (r *userRepository) update(id string, apply func(*domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	apply(u)
	return nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *userRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	_, err := r.GetByNationalID(ctx, nationalID)
	return err == nil, nil
}
