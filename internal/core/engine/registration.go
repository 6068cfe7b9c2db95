package engine

import (
	"errors"

	"payaso-portal/internal/core/domain"
)

// Action is something that happens to a registration
type Action string

const (
	ActionRegister     Action = "register"
	ActionUnregister   Action = "unregister"
	ActionMarkAttended Action = "mark_attended"
	ActionMarkAbsent   Action = "mark_absent"
)

// Registration errors
var (
	ErrEventFull         = errors.New("no places left for this role")
	ErrInvalidTransition = errors.New("invalid registration transition")
)

// Transition returns the state reached by applying action to from.
// Registering twice and unregistering a missing registration are no-ops.
// Attendance can be corrected in both directions but never removed by unregistering.
func Transition(from domain.AttendanceStatus, action Action) (domain.AttendanceStatus, error) {
	switch action {
	case ActionRegister:
		if from == domain.StatusUnregistered {
			return domain.StatusRegistered, nil
		}
		return from, nil

	case ActionUnregister:
		switch from {
		case domain.StatusUnregistered, domain.StatusRegistered:
			return domain.StatusUnregistered, nil
		}
		return from, ErrInvalidTransition

	case ActionMarkAttended, ActionMarkAbsent:
		if from == domain.StatusUnregistered {
			return from, ErrInvalidTransition
		}
		if action == ActionMarkAttended {
			return domain.StatusAttended, nil
		}
		return domain.StatusAbsent, nil
	}
	return from, ErrInvalidTransition
}

// Register applies the register action for a viewer, checking capacity
// only when a new seat would be taken
func Register(e *domain.Event, role domain.Role, from domain.AttendanceStatus) (domain.AttendanceStatus, error) {
	registered := from != domain.StatusUnregistered
	if Policy.IsFull(e, role, registered) {
		return from, ErrEventFull
	}
	return Transition(from, ActionRegister)
}

// ApplyToEvent moves an event's counters and viewer flags from one state to another
func ApplyToEvent(e *domain.Event, role domain.Role, from, to domain.AttendanceStatus) {
	held := from != domain.StatusUnregistered
	holds := to != domain.StatusUnregistered
	bucket := Policy.Bucket(role)

	switch {
	case !held && holds:
		e.Taken.Add(bucket, 1)
		e.TotalAttendees++
	case held && !holds:
		e.Taken.Add(bucket, -1)
		e.TotalAttendees--
	}
	e.Registered = holds
	e.ViewerStatus = to
}

// ToggleAction picks register or unregister from the viewer's current state
func ToggleAction(from domain.AttendanceStatus) Action {
	if from == domain.StatusUnregistered {
		return ActionRegister
	}
	return ActionUnregister
}
