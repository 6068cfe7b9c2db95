package engine

import (
	"fmt"
	"strings"
	"time"

	"payaso-portal/internal/core/domain"
)

var spanishMonths = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthLabel formats t the way payments are labelled, e.g. "junio de 2024"
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s de %d", spanishMonths[t.Month()-1], t.Year())
}

// SameMonthLabel compares two free-text month labels ignoring case,
// extra whitespace and the optional "de" connector
func SameMonthLabel(a, b string) bool {
	return normalizeLabel(a) == normalizeLabel(b)
}

func normalizeLabel(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	kept := fields[:0]
	for _, f := range fields {
		if f == "de" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// IsCompliant reports whether user is up to date with dues for the month of now
func IsCompliant(user *domain.User, payments []domain.Payment, now time.Time) bool {
	if user.ExemptFromFees {
		return true
	}
	current := MonthLabel(now)
	for _, p := range payments {
		if p.UserID != user.ID || p.Status != domain.PaymentPaid {
			continue
		}
		if SameMonthLabel(p.Month, current) {
			return true
		}
	}
	return false
}

// TotalPaid sums the amounts of paid payments only
func TotalPaid(payments []domain.Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == domain.PaymentPaid {
			total += p.Amount
		}
	}
	return total
}

// LastPaidMonth returns the month label of the most recently paid payment
func LastPaidMonth(payments []domain.Payment) string {
	var (
		label  string
		latest time.Time
	)
	for _, p := range payments {
		if p.Status != domain.PaymentPaid {
			continue
		}
		at := p.CreatedAt
		if p.DatePaid != nil {
			at = *p.DatePaid
		}
		if label == "" || at.After(latest) {
			label = p.Month
			latest = at
		}
	}
	return label
}

// ComplianceRow is one line of the treasury overview
type ComplianceRow struct {
	UserID        string  `json:"user_id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Exempt        bool    `json:"exempt"`
	Compliant     bool    `json:"compliant"`
	TotalPaid     float64 `json:"total_paid"`
	LastPaidMonth string  `json:"last_paid_month"`
	PendingCount  int     `json:"pending_count"`
}

// Compliance builds the treasury row for one user from the full payment list
func Compliance(user *domain.User, payments []domain.Payment, now time.Time) ComplianceRow {
	own := make([]domain.Payment, 0)
	pending := 0
	for _, p := range payments {
		if p.UserID != user.ID {
			continue
		}
		own = append(own, p)
		if p.Status == domain.PaymentPendingApproval {
			pending++
		}
	}

	return ComplianceRow{
		UserID:        user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		Exempt:        user.ExemptFromFees,
		Compliant:     IsCompliant(user, own, now),
		TotalPaid:     TotalPaid(own),
		LastPaidMonth: LastPaidMonth(own),
		PendingCount:  pending,
	}
}
