// Package storetest holds the behaviour every repositories.Store must share.
// Both data sources run the same suite against the demo seed.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/password"
)

// Opener returns an empty store private to the calling test
type Opener func(t *testing.T) *repositories.Store

// Run executes the suite; every subtest starts from a freshly seeded store
func Run(t *testing.T, open Opener) {
	password.Cost = bcrypt.MinCost

	seeded := func(t *testing.T) *repositories.Store {
		t.Helper()
		store := open(t)
		require.NoError(t, config.NewSeeder(store).Run(context.Background()))
		return store
	}

	t.Run("Users", func(t *testing.T) { testUsers(t, seeded(t)) })
	t.Run("UserRoles", func(t *testing.T) { testUserRoles(t, seeded(t)) })
	t.Run("Events", func(t *testing.T) { testEvents(t, seeded(t)) })
	t.Run("Payments", func(t *testing.T) { testPayments(t, seeded(t)) })
	t.Run("Locations", func(t *testing.T) { testLocations(t, seeded(t)) })
	t.Run("Graduations", func(t *testing.T) { testGraduations(t, seeded(t)) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, seeded(t)) })
}

func testUsers(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	u, err := store.Users.GetByEmail(ctx, "DR.RISAS@payaso.org")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	u, err = store.Users.GetByNationalID(ctx, "3-3333-3333")
	require.NoError(t, err)
	assert.Equal(t, "u3", u.ID)

	_, err = store.Users.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, total, err := store.Users.List(ctx, repositories.UserFilter{Search: "risas"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)

	users, total, err = store.Users.List(ctx, repositories.UserFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, users, 2)

	exists, err := store.Users.ExistsByEmail(ctx, "ana.admin@payaso.org")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.Users.ExistsByNationalID(ctx, "0-0000-0000")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := domain.User{Email: "ana.admin@payaso.org", NationalID: "9-9999-9999", FullName: "Ana Bis",
		Role: domain.RoleVolunteer, AvailableRoles: []domain.Role{domain.RoleVolunteer}, Status: domain.UserActive}
	assert.ErrorIs(t, store.Users.Create(ctx, &dup), domain.ErrDuplicateEntry)

	require.NoError(t, store.Users.UpdateStatus(ctx, "u4", domain.UserInactive))
	u, err = store.Users.GetByID(ctx, "u4")
	require.NoError(t, err)
	assert.False(t, u.IsActive())
	assert.ErrorIs(t, store.Users.UpdateStatus(ctx, "nobody", domain.UserInactive), domain.ErrUserNotFound)

	u.Phone = "1234-5678"
	u.Skills = "Zancos"
	require.NoError(t, store.Users.UpdateProfile(ctx, u))
	u, err = store.Users.GetByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, "1234-5678", u.Phone)
	assert.Equal(t, "Zancos", u.Skills)
}

func testUserRoles(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	roles := []domain.Role{domain.RoleTreasurer, domain.RoleVolunteer}
	require.NoError(t, store.Users.ReplaceRoles(ctx, "u4", roles, domain.RoleTreasurer))

	u, err := store.Users.GetByID(ctx, "u4")
	require.NoError(t, err)
	assert.ElementsMatch(t, roles, u.AvailableRoles)
	assert.Equal(t, domain.RoleTreasurer, u.Role)

	assert.ErrorIs(t, store.Users.ReplaceRoles(ctx, "nobody", roles, domain.RoleTreasurer), domain.ErrUserNotFound)

	require.NoError(t, store.Users.SetActiveRole(ctx, "u4", domain.RoleVolunteer))
	u, err = store.Users.GetByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, u.Role)
}

func testEvents(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	events, err := store.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.Before(events[i-1].Date), "events must be ordered by date")
	}

	e1, err := store.Events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCapacity{Recruit: 1, DrPayaso: 2, Photographer: 1}, e1.Taken)
	assert.Equal(t, 4, e1.TotalAttendees)
	assert.Equal(t, 8, e1.TotalCapacity)

	_, err = store.Events.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	// duplicate registration
	err = store.Events.Register(ctx, &domain.Registration{EventID: "e1", UserID: "u1", Bucket: domain.BucketDrPayaso})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	reg := &domain.Registration{EventID: "e2", UserID: "u1", Bucket: domain.BucketDrPayaso}
	require.NoError(t, store.Events.Register(ctx, reg))
	assert.Equal(t, domain.StatusRegistered, reg.Status)

	got, err := store.Events.GetRegistration(ctx, "e2", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.BucketDrPayaso, got.Bucket)

	require.NoError(t, store.Events.SetAttendance(ctx, "e2", "u1", domain.StatusAttended))
	count, err := store.Events.CountAttended(ctx, "u1", domain.EventTraining)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.Events.CountAttended(ctx, "u3", domain.EventTraining)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	regs, err := store.Events.RegistrationsByUser(ctx, "u3")
	require.NoError(t, err)
	assert.Len(t, regs, 4)

	regs, err = store.Events.Registrations(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, regs, 4)

	require.NoError(t, store.Events.Unregister(ctx, "e2", "u1"))
	assert.ErrorIs(t, store.Events.Unregister(ctx, "e2", "u1"), domain.ErrRegistrationMissing)
	_, err = store.Events.GetRegistration(ctx, "e2", "u1")
	assert.ErrorIs(t, err, domain.ErrRegistrationMissing)
	assert.ErrorIs(t, store.Events.SetAttendance(ctx, "e2", "u1", domain.StatusAbsent), domain.ErrRegistrationMissing)

	created := &domain.Event{
		Type: domain.EventVisit, Title: "Visita Escuela", Date: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
		Location: "Escuela", Capacity: domain.RoleCapacity{DrPayaso: 2},
	}
	require.NoError(t, store.Events.Create(ctx, created))
	assert.NotEmpty(t, created.ID)
}

func testPayments(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	mine, err := store.Payments.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 4)

	p := &domain.Payment{UserID: "u3", Amount: 5000, Month: "Junio 2024", Status: domain.PaymentPendingApproval}
	require.NoError(t, store.Payments.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	paidAt := time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Payments.UpdateStatus(ctx, p.ID, domain.PaymentPaid, &paidAt))

	got, err := store.Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.Status)
	require.NotNil(t, got.DatePaid)
	assert.True(t, got.DatePaid.Equal(paidAt))

	assert.ErrorIs(t, store.Payments.UpdateStatus(ctx, "nope", domain.PaymentRejected, nil), domain.ErrPaymentNotFound)
	_, err = store.Payments.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func testLocations(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	all, err := store.Locations.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	require.NoError(t, store.Locations.SetActive(ctx, "l1", false))
	active, err := store.Locations.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 4)
	for _, l := range active {
		assert.NotEqual(t, "l1", l.ID)
	}

	loc, err := store.Locations.GetByID(ctx, "l2")
	require.NoError(t, err)
	loc.Address = "Curridabat"
	require.NoError(t, store.Locations.Update(ctx, loc))
	loc, err = store.Locations.GetByID(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, "Curridabat", loc.Address)

	assert.ErrorIs(t, store.Locations.SetActive(ctx, "nope", true), domain.ErrLocationNotFound)
}

func testGraduations(t *testing.T, store *repositories.Store) {
	ctx := context.Background()
	at := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	_, err := store.Graduations.GetLatestByUser(ctx, "u3")
	assert.ErrorIs(t, err, domain.ErrGraduationNotFound)

	req := &domain.GraduationRequest{UserID: "u3", Status: domain.GraduationPending, RequestedAt: at}
	require.NoError(t, store.Graduations.Create(ctx, req))
	require.NotEmpty(t, req.ID)

	pending, err := store.Graduations.ListByStatus(ctx, domain.GraduationPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "u3", pending[0].UserID)

	require.NoError(t, store.Graduations.Approve(ctx, req.ID, at))

	latest, err := store.Graduations.GetLatestByUser(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.GraduationApproved, latest.Status)

	u, err := store.Users.GetByID(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDrPayaso, u.Role)
	assert.Contains(t, u.AvailableRoles, domain.RoleDrPayaso)
	assert.NotContains(t, u.AvailableRoles, domain.RoleRecruit)

	assert.ErrorIs(t, store.Graduations.Reject(ctx, "nope", at), domain.ErrGraduationNotFound)
}

func testMessages(t *testing.T, store *repositories.Store) {
	ctx := context.Background()
	base := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"hola", "¿quién lleva globos?", "yo"} {
		msg := &domain.ChatMessage{EventID: "e1", UserID: "u1", UserName: "Dr. Risas", Text: text,
			Timestamp: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Chat.Create(ctx, msg))
	}

	all, err := store.Chat.ListByEvent(ctx, "e1", time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "hola", all[0].Text)

	recent, err := store.Chat.ListByEvent(ctx, "e1", base)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	sys := &domain.SystemMessage{Subject: "Cuotas", Body: "Recuerden pagar", SentBy: "u2",
		TargetRoles: []domain.Role{domain.RoleRecruit}, SentAt: base}
	require.NoError(t, store.Messages.Create(ctx, sys))
	list, err := store.Messages.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Targets(domain.RoleRecruit))
}
