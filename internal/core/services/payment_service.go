package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
	"payaso-portal/internal/pkg/validator"
)

// Payment errors
var (
	ErrPaymentNotPending = errors.New("payment is not pending approval")
)

// PaymentService handles dues payments and the treasury overview
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
	cfg         *config.Config
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *repositories.Store, cfg *config.Config) *PaymentService {
	return &PaymentService{
		paymentRepo: store.Payments,
		userRepo:    store.Users,
		cfg:         cfg,
	}
}

// ReportPaymentInput represents a reported dues payment
type ReportPaymentInput struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Month       string  `json:"month" validate:"max=40"`
	ReferenceID string  `json:"reference_id" validate:"max=100"`
	ReceiptURL  string  `json:"receipt_url" validate:"omitempty,url"`
	Notes       string  `json:"notes" validate:"max=500"`
	// UserID and Status are honoured for finance staff only
	UserID string `json:"user_id"`
	Status string `json:"status" validate:"omitempty,oneof=paid pending_approval"`
}

// TreasuryOverview is the finance view over every active volunteer
type TreasuryOverview struct {
	Month              string                 `json:"month"`
	MonthlyFee         float64                `json:"monthly_fee"`
	CollectedThisMonth float64                `json:"collected_this_month"`
	PendingCount       int                    `json:"pending_count"`
	ComplianceRate     int                    `json:"compliance_rate"`
	NonCompliant       int                    `json:"non_compliant"`
	Rows               []engine.ComplianceRow `json:"rows"`
}

// ListMine returns the viewer's own payments, pending first
func (s *PaymentService) ListMine(ctx context.Context, userID string) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortPendingFirst(payments)
	return payments, nil
}

// ListAll returns every payment, pending first
func (s *PaymentService) ListAll(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortPendingFirst(payments)
	return payments, nil
}

// Report records a payment. Volunteers always create pending_approval
// payments for themselves; finance staff may record for anyone.
func (s *PaymentService) Report(ctx context.Context, viewer Viewer, input *ReportPaymentInput) (*domain.Payment, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	now := nowFunc()
	payment := &domain.Payment{
		UserID:      viewer.UserID,
		Amount:      input.Amount,
		Month:       strings.TrimSpace(input.Month),
		Status:      domain.PaymentPendingApproval,
		ReferenceID: strings.TrimSpace(input.ReferenceID),
		ReceiptURL:  input.ReceiptURL,
		Notes:       input.Notes,
	}
	if payment.Month == "" {
		payment.Month = engine.MonthLabel(now)
	}

	if viewer.Role.IsFinance() {
		if input.UserID != "" {
			payment.UserID = input.UserID
		}
		if domain.PaymentStatus(input.Status) == domain.PaymentPaid {
			payment.Status = domain.PaymentPaid
			payment.DatePaid = &now
		}
	}

	// Payer must exist
	if _, err := s.userRepo.GetByID(ctx, payment.UserID); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment reported: %s %.2f for %s [%s]", payment.UserID, payment.Amount, payment.Month, payment.Status)
	return payment, nil
}

// Approve marks a pending payment as paid
func (s *PaymentService) Approve(ctx context.Context, id string) (*domain.Payment, error) {
	now := nowFunc()
	return s.resolve(ctx, id, domain.PaymentPaid, &now)
}

// Reject marks a pending payment as rejected
func (s *PaymentService) Reject(ctx context.Context, id string) (*domain.Payment, error) {
	return s.resolve(ctx, id, domain.PaymentRejected, nil)
}

func (s *PaymentService) resolve(ctx context.Context, id string, status domain.PaymentStatus, datePaid *time.Time) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPendingApproval {
		return nil, ErrPaymentNotPending
	}

	if err := s.paymentRepo.UpdateStatus(ctx, id, status, datePaid); err != nil {
		return nil, err
	}
	payment.Status = status
	payment.DatePaid = datePaid

	log.Printf("✅ Payment %s %s", id, status)
	return payment, nil
}

// Treasury builds the compliance overview for every active volunteer
func (s *PaymentService) Treasury(ctx context.Context) (*TreasuryOverview, error) {
	users, _, err := s.userRepo.List(ctx, repositories.UserFilter{})
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	month := engine.MonthLabel(now)
	overview := &TreasuryOverview{
		Month:      month,
		MonthlyFee: s.cfg.Treasury.MonthlyFee,
		Rows:       make([]engine.ComplianceRow, 0, len(users)),
	}

	for _, p := range payments {
		switch p.Status {
		case domain.PaymentPendingApproval:
			overview.PendingCount++
		case domain.PaymentPaid:
			if engine.SameMonthLabel(p.Month, month) {
				overview.CollectedThisMonth += p.Amount
			}
		}
	}

	payable, compliant := 0, 0
	for i := range users {
		if !users[i].IsActive() {
			continue
		}
		row := engine.Compliance(&users[i], payments, now)
		overview.Rows = append(overview.Rows, row)
		if row.Exempt {
			continue
		}
		payable++
		if row.Compliant {
			compliant++
		} else {
			overview.NonCompliant++
		}
	}
	if payable > 0 {
		overview.ComplianceRate = 100 * compliant / payable
	}
	return overview, nil
}

// sortPendingFirst orders pending payments first, then newest first
func sortPendingFirst(payments []domain.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		pi := payments[i].Status == domain.PaymentPendingApproval
		pj := payments[j].Status == domain.PaymentPendingApproval
		if pi != pj {
			return pi
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
}
