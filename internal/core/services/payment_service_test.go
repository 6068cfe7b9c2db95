package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
)

func TestPaymentService_ListMine_PendingFirst(t *testing.T) {
	env := newTestEnv(t)

	payments, err := env.payments.ListMine(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, payments, 4)
	assert.Equal(t, "p4", payments[0].ID)
	assert.Equal(t, domain.PaymentPendingApproval, payments[0].Status)
}

func TestPaymentService_Report(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("volunteers always report pending for themselves", func(t *testing.T) {
		p, err := env.payments.Report(ctx, pepito, &ReportPaymentInput{
			Amount: 5000, UserID: "u1", Status: "paid", ReferenceID: " SINPE-123 ",
		})
		require.NoError(t, err)
		assert.Equal(t, "u3", p.UserID)
		assert.Equal(t, domain.PaymentPendingApproval, p.Status)
		assert.Equal(t, "junio de 2024", p.Month)
		assert.Equal(t, "SINPE-123", p.ReferenceID)
		assert.Nil(t, p.DatePaid)
	})

	t.Run("finance staff may record a paid payment for someone else", func(t *testing.T) {
		p, err := env.payments.Report(ctx, anaAdmin, &ReportPaymentInput{
			Amount: 5000, UserID: "u3", Status: "paid", Month: "Junio 2024",
		})
		require.NoError(t, err)
		assert.Equal(t, "u3", p.UserID)
		assert.Equal(t, domain.PaymentPaid, p.Status)
		require.NotNil(t, p.DatePaid)
		assert.Equal(t, testNow, *p.DatePaid)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := env.payments.Report(ctx, pepito, &ReportPaymentInput{Amount: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown payer", func(t *testing.T) {
		_, err := env.payments.Report(ctx, anaAdmin, &ReportPaymentInput{Amount: 10, UserID: "ghost"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPaymentService_ApproveReject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.payments.Approve(ctx, "p4")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, p.Status)
	require.NotNil(t, p.DatePaid)

	stored, err := env.store.Payments.GetByID(ctx, "p4")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, stored.Status)

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"approve twice", func() error { _, err := env.payments.Approve(ctx, "p4"); return err }, ErrPaymentNotPending},
		{"reject paid", func() error { _, err := env.payments.Reject(ctx, "p1"); return err }, ErrPaymentNotPending},
		{"missing", func() error { _, err := env.payments.Reject(ctx, "nope"); return err }, domain.ErrPaymentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.wantErr)
		})
	}

	pending, err := env.payments.Report(ctx, pepito, &ReportPaymentInput{Amount: 5000})
	require.NoError(t, err)
	rejected, err := env.payments.Reject(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, rejected.Status)
	assert.Nil(t, rejected.DatePaid)
}

func TestPaymentService_Treasury(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	overview, err := env.payments.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, "junio de 2024", overview.Month)
	assert.Equal(t, 5000.0, overview.MonthlyFee)
	assert.Equal(t, 1, overview.PendingCount)
	assert.Equal(t, 3, overview.NonCompliant)
	assert.Equal(t, 0, overview.ComplianceRate)
	assert.Len(t, overview.Rows, 5)

	rows := map[string]engine.ComplianceRow{}
	for _, r := range overview.Rows {
		rows[r.UserID] = r
	}
	assert.Equal(t, 15000.0, rows["u1"].TotalPaid)
	assert.Equal(t, "Marzo 2024", rows["u1"].LastPaidMonth)
	assert.Equal(t, 1, rows["u1"].PendingCount)
	assert.True(t, rows["u2"].Compliant)

	_, err = env.payments.Report(ctx, anaAdmin, &ReportPaymentInput{Amount: 5000, UserID: "u3", Status: "paid"})
	require.NoError(t, err)
	require.NoError(t, env.store.Users.UpdateStatus(ctx, "u5", domain.UserInactive))

	overview, err = env.payments.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, overview.CollectedThisMonth)
	assert.Len(t, overview.Rows, 4)
	assert.Equal(t, 1, overview.NonCompliant)
	assert.Equal(t, 50, overview.ComplianceRate)
}
