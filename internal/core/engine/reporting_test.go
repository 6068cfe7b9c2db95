package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
)

func TestBuildImpactStats_Empty(t *testing.T) {
	stats := BuildImpactStats(nil, nil, nil, 5)

	assert.Zero(t, stats.TotalVolunteers)
	assert.Zero(t, stats.TotalCollected)
	require.Len(t, stats.Monthly, 12)
	require.Len(t, stats.Weekday, 7)
	require.Len(t, stats.RoleDistribution, 4)
	assert.Empty(t, stats.TopLocations)
	assert.Equal(t, "Ene", stats.Monthly[0].Name)
	assert.Equal(t, "Dom", stats.Weekday[0].Name)
	for _, m := range stats.Monthly {
		assert.Zero(t, m.Visits)
		assert.Zero(t, m.Amount)
	}
}

func TestBuildImpactStats(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Role: domain.RoleDrPayaso, Status: domain.UserActive},
		{ID: "u2", Role: domain.RoleAdmin, Status: domain.UserActive},
		{ID: "u3", Role: domain.RoleRecruit, Status: domain.UserInactive},
		{ID: "u4", Role: domain.RolePhotographer, Status: domain.UserActive},
		{ID: "u5", Role: domain.RoleTreasurer, Status: domain.UserActive},
	}
	events := []domain.Event{
		// 2024-01-01 is a Monday, 2024-01-07 a Sunday
		{Type: domain.EventVisit, Date: day(2024, 1, 1), Location: "Hospital A"},
		{Type: domain.EventVisit, Date: day(2024, 1, 7), Location: "Hospital A"},
		{Type: domain.EventVisit, Date: day(2024, 3, 4), Location: "Albergue B"},
		{Type: domain.EventTraining, Date: day(2024, 1, 2), Location: "Sede"},
	}
	payments := []domain.Payment{
		{Amount: 5000, Month: "Enero 2024", Status: domain.PaymentPaid},
		{Amount: 5000, Month: "enero de 2024", Status: domain.PaymentPaid},
		{Amount: 5000, Month: "Marzo 2024", Status: domain.PaymentPendingApproval},
		{Amount: 300, Month: "??", Status: domain.PaymentPaid},
	}

	stats := BuildImpactStats(users, events, payments, 1)

	assert.Equal(t, 5, stats.TotalVolunteers)
	assert.Equal(t, 4, stats.ActiveVolunteers)
	assert.Equal(t, 3, stats.TotalVisits)
	assert.Equal(t, 1, stats.TotalTrainings)
	assert.Equal(t, 10300.0, stats.TotalCollected)

	assert.Equal(t, []RoleSlice{
		{Name: "Dr. Payaso", Value: 1},
		{Name: "Reclutas", Value: 1},
		{Name: "Fotógrafos", Value: 1},
		{Name: "Staff", Value: 2},
	}, stats.RoleDistribution)

	assert.Equal(t, 2, stats.Monthly[0].Visits)
	assert.Equal(t, 1, stats.Monthly[0].Trainings)
	assert.Equal(t, 10000.0, stats.Monthly[0].Amount)
	assert.Equal(t, 1, stats.Monthly[2].Visits)
	assert.Zero(t, stats.Monthly[2].Amount)

	assert.Equal(t, 1, stats.Weekday[0].Visits)
	assert.Equal(t, 2, stats.Weekday[1].Visits)
	assert.Zero(t, stats.Weekday[2].Visits)

	assert.Equal(t, []LocationCount{{Name: "Hospital A", Visits: 2}}, stats.TopLocations)
}
