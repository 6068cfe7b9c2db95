package memory

import (
	"context"
	"time"

	"payaso-portal/internal/core/domain"
)

type paymentRepository struct {
	s *Store
}

func (r *paymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.list(func(*domain.Payment) bool { return true }), nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return r.list(func(p *domain.Payment) bool { return p.UserID == userID }), nil
}

// list returns matches newest first
func (r *paymentRepository) list(match func(*domain.Payment) bool) []domain.Payment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Payment, 0)
	for i := len(r.s.paymentOrder) - 1; i >= 0; i-- {
		p := r.s.payments[r.s.paymentOrder[i]]
		if match(p) {
			out = append(out, *p)
		}
	}
	return out
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	out := *p
	return &out, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment.ID = newID(payment.ID)
	if _, ok := r.s.payments[payment.ID]; ok {
		return domain.ErrDuplicateEntry
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = r.s.now()
	}

	row := *payment
	r.s.payments[row.ID] = &row
	r.s.paymentOrder = append(r.s.paymentOrder, row.ID)
	return nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, datePaid *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Status = status
	if datePaid != nil {
		at := *datePaid
		p.DatePaid = &at
	}
	return nil
}
