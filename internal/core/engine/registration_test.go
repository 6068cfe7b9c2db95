package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    domain.AttendanceStatus
		action  Action
		want    domain.AttendanceStatus
		wantErr bool
	}{
		{domain.StatusUnregistered, ActionRegister, domain.StatusRegistered, false},
		{domain.StatusRegistered, ActionRegister, domain.StatusRegistered, false},
		{domain.StatusRegistered, ActionUnregister, domain.StatusUnregistered, false},
		{domain.StatusUnregistered, ActionUnregister, domain.StatusUnregistered, false},
		{domain.StatusRegistered, ActionMarkAttended, domain.StatusAttended, false},
		{domain.StatusRegistered, ActionMarkAbsent, domain.StatusAbsent, false},
		{domain.StatusAttended, ActionMarkAbsent, domain.StatusAbsent, false},
		{domain.StatusAbsent, ActionMarkAttended, domain.StatusAttended, false},
		{domain.StatusAttended, ActionRegister, domain.StatusAttended, false},
		{domain.StatusUnregistered, ActionMarkAttended, domain.StatusUnregistered, true},
		{domain.StatusAttended, ActionUnregister, domain.StatusAttended, true},
		{domain.StatusAbsent, ActionUnregister, domain.StatusAbsent, true},
		{domain.StatusRegistered, Action("bogus"), domain.StatusRegistered, true},
	}
	for _, tt := range tests {
		name := string(tt.from) + "/" + string(tt.action)
		t.Run(name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegister_FullAndIdempotent(t *testing.T) {
	e := hospitalVisit()

	// photographer bucket is already 1/1
	_, err := Register(&e, domain.RolePhotographer, domain.StatusUnregistered)
	assert.ErrorIs(t, err, ErrEventFull)

	got, err := Register(&e, domain.RolePhotographer, domain.StatusRegistered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRegistered, got)
}

func TestApplyToEvent(t *testing.T) {
	e := hospitalVisit()

	ApplyToEvent(&e, domain.RoleRecruit, domain.StatusUnregistered, domain.StatusRegistered)
	assert.Equal(t, 2, e.Taken.Recruit)
	assert.Equal(t, 5, e.TotalAttendees)
	assert.True(t, e.Registered)

	// a second register does not move the counters
	ApplyToEvent(&e, domain.RoleRecruit, domain.StatusRegistered, domain.StatusRegistered)
	assert.Equal(t, 2, e.Taken.Recruit)

	ApplyToEvent(&e, domain.RoleRecruit, domain.StatusRegistered, domain.StatusUnregistered)
	assert.Equal(t, 1, e.Taken.Recruit)
	assert.Equal(t, 4, e.TotalAttendees)
	assert.False(t, e.Registered)
	assert.Equal(t, domain.StatusUnregistered, e.ViewerStatus)
}

func TestToggleAction(t *testing.T) {
	assert.Equal(t, ActionRegister, ToggleAction(domain.StatusUnregistered))
	assert.Equal(t, ActionUnregister, ToggleAction(domain.StatusRegistered))
}
