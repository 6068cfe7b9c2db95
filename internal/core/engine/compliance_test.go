package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"payaso-portal/internal/core/domain"
)

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "junio de 2024", MonthLabel(day(2024, 6, 15)))
	assert.Equal(t, "enero de 2025", MonthLabel(day(2025, 1, 1)))
}

func TestSameMonthLabel(t *testing.T) {
	assert.True(t, SameMonthLabel("Junio 2024", "junio de 2024"))
	assert.True(t, SameMonthLabel("  JUNIO   DE 2024 ", "junio de 2024"))
	assert.False(t, SameMonthLabel("Junio 2023", "junio de 2024"))
	assert.False(t, SameMonthLabel("Julio 2024", "junio de 2024"))
}

func TestIsCompliant(t *testing.T) {
	now := day(2024, 6, 10)
	user := &domain.User{ID: "u1"}

	tests := []struct {
		name     string
		exempt   bool
		payments []domain.Payment
		want     bool
	}{
		{
			name:   "exempt with no payments",
			exempt: true,
			want:   true,
		},
		{
			name: "pending payment for current month",
			payments: []domain.Payment{
				{UserID: "u1", Month: "Junio 2024", Status: domain.PaymentPendingApproval},
			},
			want: false,
		},
		{
			name: "rejected payment for current month",
			payments: []domain.Payment{
				{UserID: "u1", Month: "junio de 2024", Status: domain.PaymentRejected},
			},
			want: false,
		},
		{
			name: "paid payment labelled in upper case",
			payments: []domain.Payment{
				{UserID: "u1", Month: "JUNIO DE 2024", Status: domain.PaymentPaid},
			},
			want: true,
		},
		{
			name: "paid payment for a previous month",
			payments: []domain.Payment{
				{UserID: "u1", Month: "Mayo 2024", Status: domain.PaymentPaid},
			},
			want: false,
		},
		{
			name: "someone else's payment",
			payments: []domain.Payment{
				{UserID: "u2", Month: "junio de 2024", Status: domain.PaymentPaid},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := *user
			u.ExemptFromFees = tt.exempt
			assert.Equal(t, tt.want, IsCompliant(&u, tt.payments, now))
		})
	}
}

func TestTotalPaidAndLastMonth(t *testing.T) {
	jan := day(2024, 1, 5)
	mar := day(2024, 3, 5)
	payments := []domain.Payment{
		{UserID: "u1", Amount: 5000, Month: "Marzo 2024", Status: domain.PaymentPaid, DatePaid: &mar},
		{UserID: "u1", Amount: 5000, Month: "Enero 2024", Status: domain.PaymentPaid, DatePaid: &jan},
		{UserID: "u1", Amount: 5000, Month: "Abril 2024", Status: domain.PaymentPendingApproval},
		{UserID: "u1", Amount: 7000, Month: "Mayo 2024", Status: domain.PaymentRejected},
	}

	assert.Equal(t, 10000.0, TotalPaid(payments))
	assert.Equal(t, "Marzo 2024", LastPaidMonth(payments))
	assert.Equal(t, "", LastPaidMonth(nil))
}

func TestCompliance(t *testing.T) {
	now := day(2024, 4, 20)
	user := &domain.User{ID: "u1", FullName: "Juan Pérez", Email: "juan@example.com"}
	payments := []domain.Payment{
		{UserID: "u1", Amount: 5000, Month: "Abril 2024", Status: domain.PaymentPendingApproval},
		{UserID: "u1", Amount: 5000, Month: "Marzo 2024", Status: domain.PaymentPaid},
		{UserID: "u2", Amount: 5000, Month: "Abril 2024", Status: domain.PaymentPaid},
	}

	row := Compliance(user, payments, now)
	assert.False(t, row.Compliant)
	assert.Equal(t, 5000.0, row.TotalPaid)
	assert.Equal(t, 1, row.PendingCount)
	assert.Equal(t, "Marzo 2024", row.LastPaidMonth)
}
