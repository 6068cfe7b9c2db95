package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
)

// makeEligible tops u3 up to 20 training hours and 5 visits
func makeEligible(t *testing.T, env *testEnv) {
	t.Helper()
	past := testNow.Add(-30 * 24 * time.Hour)
	for i := 0; i < 8; i++ {
		env.attend(t, "u3", domain.Event{
			ID: fmt.Sprintf("t%d", i), Type: domain.EventTraining, Title: "Práctica", Date: past, TotalCapacity: 50,
		}, domain.BucketRecruit)
	}
	for i := 0; i < 4; i++ {
		env.attend(t, "u3", domain.Event{
			ID: fmt.Sprintf("v%d", i), Type: domain.EventVisit, Title: "Visita", Date: past,
			Capacity: domain.RoleCapacity{Recruit: 2},
		}, domain.BucketRecruit)
	}
}

func TestGraduationService_Request(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.graduations.Request(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotRecruit)

	_, err = env.graduations.Request(ctx, "u3")
	assert.ErrorIs(t, err, ErrNotEligible)

	view, err := env.graduations.Progress(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, 20, view.Progress.TrainingPercent)
	assert.Equal(t, 20, view.Progress.VisitsPercent)
	assert.False(t, view.Progress.Eligible)
	assert.Nil(t, view.Request)

	makeEligible(t, env)

	req, err := env.graduations.Request(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.GraduationPending, req.Status)
	assert.Equal(t, 20, req.Stats.TrainingHours)
	assert.Equal(t, 5, req.Stats.VisitsCount)

	_, err = env.graduations.Request(ctx, "u3")
	assert.ErrorIs(t, err, ErrGraduationRequested)

	stats, err := env.graduations.Stats(ctx, "u3")
	require.NoError(t, err)
	assert.True(t, stats.GraduationRequested)

	pending, err := env.graduations.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Pepito López", pending[0].UserFullName)
	assert.True(t, pending[0].Progress.Eligible)
}

func TestGraduationService_Approve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	makeEligible(t, env)

	req, err := env.graduations.Request(ctx, "u3")
	require.NoError(t, err)

	approved, err := env.graduations.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GraduationApproved, approved.Status)
	assert.NotNil(t, approved.ResolvedAt)

	user, err := env.store.Users.GetByID(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDrPayaso, user.Role)
	assert.Equal(t, []domain.Role{domain.RoleDrPayaso}, user.AvailableRoles)

	_, err = env.graduations.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, ErrGraduationNotPending)

	_, err = env.graduations.Reject(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrGraduationNotFound)
}

func TestGraduationService_RejectAllowsNewRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	makeEligible(t, env)

	req, err := env.graduations.Request(ctx, "u3")
	require.NoError(t, err)

	rejected, err := env.graduations.Reject(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GraduationRejected, rejected.Status)

	user, err := env.store.Users.GetByID(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecruit, user.Role)

	nowFunc = func() time.Time { return testNow.Add(time.Hour) }
	_, err = env.graduations.Request(ctx, "u3")
	assert.NoError(t, err)
}
