package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
)

func eventIDs(events []domain.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestEventService_ListForViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   Viewer
		category engine.Category
		want     []string
	}{
		{"photographer does not see visits without photo places", carlaFoto, engine.CategoryAll, []string{"e1", "e2", "e4"}},
		{"recruit sees both visits", pepito, engine.CategoryAll, []string{"e1", "e2", "e3", "e4"}},
		{"visit tab", pepito, engine.CategoryVisit, []string{"e1", "e3"}},
		{"training tab", carlaFoto, engine.CategoryTraining, []string{"e2", "e4"}},
		{"admin sees everything", anaAdmin, engine.CategoryAll, []string{"e1", "e2", "e3", "e4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := env.events.ListForViewer(ctx, tt.viewer, tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eventIDs(events))
		})
	}

	events, err := env.events.ListForViewer(ctx, pepito, engine.CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAttended, events[0].ViewerStatus)
	assert.True(t, events[0].Registered)
	assert.Equal(t, domain.RoleCapacity{Recruit: 1, DrPayaso: 2, Photographer: 1}, events[0].Taken)
	assert.Equal(t, 8, events[0].TotalCapacity)
	assert.Equal(t, 4, events[0].TotalAttendees)
}

func TestEventService_GetEvent_Hidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.events.GetEvent(context.Background(), carlaFoto, "e3")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_CreateEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	date := testNow.Add(72 * time.Hour)

	t.Run("training defaults capacity and resolves location", func(t *testing.T) {
		event, err := env.events.CreateEvent(ctx, "u2", &CreateEventInput{
			Type: "training", Title: "Taller de Magia", Date: date, LocationID: "l5",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTrainingCapacity, event.TotalCapacity)
		assert.Equal(t, "Sede Central - Sala de Ensayos", event.Location)
		assert.NotEmpty(t, event.ID)
	})

	t.Run("visit total is the sum of buckets", func(t *testing.T) {
		event, err := env.events.CreateEvent(ctx, "u2", &CreateEventInput{
			Type: "visit", Title: "Visita Escuela", Date: date, Location: "Escuela Central",
			Capacity: domain.RoleCapacity{DrPayaso: 3, Photographer: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 4, event.TotalCapacity)
	})

	t.Run("visit without places", func(t *testing.T) {
		_, err := env.events.CreateEvent(ctx, "u2", &CreateEventInput{Type: "visit", Title: "Vacía", Date: date})
		assert.ErrorIs(t, err, ErrEmptyVisit)
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := env.events.CreateEvent(ctx, "u2", &CreateEventInput{Type: "training", Title: "X", Date: date, LocationID: "nope"})
		assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := env.events.CreateEvent(ctx, "u2", &CreateEventInput{Type: "party", Title: "X", Date: date})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// u5 is a Dr. Payaso with no registration on e3 (3 dr places)
	drChiflado := Viewer{UserID: "u5", Role: domain.RoleDrPayaso}
	event, err := env.events.Register(ctx, drChiflado, "e3")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRegistered, event.ViewerStatus)
	assert.Equal(t, 1, event.Taken.DrPayaso)

	// registering twice is a no-op
	again, err := env.events.Register(ctx, drChiflado, "e3")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Taken.DrPayaso)

	// an attended registration is kept as is
	attended, err := env.events.Register(ctx, drRisas, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAttended, attended.ViewerStatus)
	assert.Equal(t, 2, attended.Taken.DrPayaso)
}

func TestEventService_Register_Full(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := &domain.User{Email: "foto2@payaso.org", NationalID: "9-9999-9999", FullName: "Foto Dos",
		Role: domain.RolePhotographer, AvailableRoles: []domain.Role{domain.RolePhotographer}}
	require.NoError(t, env.store.Users.Create(ctx, user))

	_, err := env.events.Register(ctx, Viewer{UserID: user.ID, Role: domain.RolePhotographer}, "e1")
	assert.ErrorIs(t, err, ErrEventFull)

	regs, err := env.store.Events.Registrations(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, regs, 4)
}

func TestEventService_Register_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.events.CreateEvent(ctx, "u2", &CreateEventInput{
		Type: "visit", Title: "Visita", Date: testNow.Add(48 * time.Hour), Location: "Hospital",
		Capacity: domain.RoleCapacity{Volunteer: 2},
	})
	require.NoError(t, err)

	const n = 6
	ids := make([]string, n)
	for i := range ids {
		u := &domain.User{
			Email: string(rune('a'+i)) + "@payaso.org", NationalID: string(rune('a' + i)), FullName: "Voluntario",
			Role: domain.RoleVolunteer, AvailableRoles: []domain.Role{domain.RoleVolunteer},
		}
		require.NoError(t, env.store.Users.Create(ctx, u))
		ids[i] = u.ID
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.events.Register(ctx, Viewer{UserID: id, Role: domain.RoleVolunteer}, event.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, ErrEventFull) {
				full++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, ok)
	assert.Equal(t, n-2, full)
}

func TestEventService_Unregister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// registered -> unregistered frees the seat
	event, err := env.events.Unregister(ctx, pepito, "e3")
	require.NoError(t, err)
	assert.False(t, event.Registered)
	assert.Equal(t, 0, event.Taken.Recruit)

	// missing registration is a no-op
	_, err = env.events.Unregister(ctx, pepito, "e3")
	assert.NoError(t, err)

	// attended registrations stay
	_, err = env.events.Unregister(ctx, pepito, "e2")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEventService_MarkAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.events.MarkAttendance(ctx, "e3", "u3", &MarkAttendanceInput{Status: "attended"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAttended, reg.Status)

	// corrections are allowed
	reg, err = env.events.MarkAttendance(ctx, "e3", "u3", &MarkAttendanceInput{Status: "absent"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbsent, reg.Status)

	_, err = env.events.MarkAttendance(ctx, "e3", "u1", &MarkAttendanceInput{Status: "attended"})
	assert.ErrorIs(t, err, domain.ErrRegistrationMissing)

	_, err = env.events.MarkAttendance(ctx, "e3", "u3", &MarkAttendanceInput{Status: "registered"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEventService_Attendees(t *testing.T) {
	env := newTestEnv(t)

	records, err := env.events.Attendees(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, records, 4)

	names := map[string]string{}
	for _, r := range records {
		names[r.UserID] = r.UserFullName
	}
	assert.Equal(t, "Dr. Risas", names["u1"])
	assert.Equal(t, "Pepito López", names["u3"])
}

func TestEventService_HistoryAndStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	history, err := env.events.History(ctx, pepito)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3", "e4"}, eventIDs(history.Upcoming))
	assert.Empty(t, history.Past)

	nowFunc = func() time.Time { return time.Date(2024, time.June, 21, 0, 0, 0, 0, time.Local) }
	history, err = env.events.History(ctx, pepito)
	require.NoError(t, err)
	assert.Equal(t, []string{"e3", "e4"}, eventIDs(history.Upcoming))
	assert.Equal(t, []string{"e2", "e1"}, eventIDs(history.Past))

	stats, err := env.events.Stats(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TrainingHours)
	assert.Equal(t, 1, stats.VisitsCount)
}
