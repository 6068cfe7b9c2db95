package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
)

func TestDashboardService_Admin(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.dashboard.GetAdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, data.TotalVolunteers)
	assert.Equal(t, 5, data.ActiveVolunteers)
	assert.Equal(t, 2, data.TotalVisits)
	assert.Equal(t, 2, data.TotalTrainings)
	assert.Equal(t, 15000.0, data.TotalCollected)
	assert.Equal(t, 1, data.PendingPayments)
	assert.Equal(t, 0, data.PendingGraduations)

	require.Len(t, data.TopLocations, 2)
	assert.Equal(t, "Hogar de Ancianos San Pedro", data.TopLocations[0].Name)
}

func TestDashboardService_Volunteer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	data, err := env.dashboard.GetVolunteerDashboard(ctx, pepito)
	require.NoError(t, err)
	require.NotNil(t, data.NextMission)
	assert.Equal(t, "e1", data.NextMission.ID)
	assert.Equal(t, 4, data.Stats.TrainingHours)
	assert.False(t, data.Compliance.Compliant)

	// u2 has no registrations
	data, err = env.dashboard.GetVolunteerDashboard(ctx, anaAdmin)
	require.NoError(t, err)
	assert.Nil(t, data.NextMission)
}

func TestCronService_DuesReminder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	msg, err := env.cron.RunDuesReminder(ctx)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, SystemSender, msg.SentBy)
	assert.Contains(t, msg.Subject, "junio de 2024")
	assert.True(t, msg.Targets(domain.RoleRecruit))
	assert.False(t, msg.Targets(domain.RoleAdmin))

	inbox, err := env.chat.Inbox(ctx, pepito)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	for _, id := range []string{"u1", "u3", "u5"} {
		require.NoError(t, env.store.Users.UpdateStatus(ctx, id, domain.UserInactive))
	}
	msg, err = env.cron.RunDuesReminder(ctx)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestCronService_StartStop(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.cron.Start())
	env.cron.Stop()

	env.cfg.Cron.DuesReminder = "not a schedule"
	bad := NewCronService(env.store, env.payments, env.cfg)
	assert.Error(t, bad.Start())
}
