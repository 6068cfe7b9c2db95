// Package engine holds the capacity, visibility, compliance and graduation
// rules of the portal. Every function is pure; callers pass the data they
// already fetched and the instant they consider "now".
package engine

import "payaso-portal/internal/core/domain"

// Slot is the occupancy a viewer sees for an event
type Slot struct {
	Taken int `json:"taken"`
	Max   int `json:"max"`
}

// RoleCapacityPolicy maps roles to capacity buckets.
// Every role-dependent capacity decision goes through it.
type RoleCapacityPolicy struct{}

// Policy is the shared policy instance
var Policy = RoleCapacityPolicy{}

// Bucket returns the capacity bucket a role books into
func (RoleCapacityPolicy) Bucket(role domain.Role) domain.CapacityBucket {
	switch role {
	case domain.RoleDrPayaso:
		return domain.BucketDrPayaso
	case domain.RoleRecruit:
		return domain.BucketRecruit
	case domain.RolePhotographer:
		return domain.BucketPhotographer
	default:
		return domain.BucketVolunteer
	}
}

// Slot returns the (taken, max) pair for a viewer.
// Trainings are not role-partitioned and report the event totals.
func (p RoleCapacityPolicy) Slot(e *domain.Event, role domain.Role) Slot {
	if e.Type == domain.EventTraining {
		return Slot{Taken: e.TotalAttendees, Max: e.TotalCapacity}
	}
	b := p.Bucket(role)
	return Slot{Taken: e.Taken.Get(b), Max: e.Capacity.Get(b)}
}

// IsFull reports whether a viewer is blocked from registering.
// A viewer who already holds a seat is never blocked.
func (p RoleCapacityPolicy) IsFull(e *domain.Event, role domain.Role, registered bool) bool {
	if registered {
		return false
	}
	s := p.Slot(e, role)
	return s.Taken >= s.Max
}

// Visible reports whether a viewer may see an event at all
func (p RoleCapacityPolicy) Visible(e *domain.Event, role domain.Role) bool {
	if role.IsAdministrative() {
		return true
	}
	if e.Type == domain.EventTraining {
		return true
	}
	return e.Capacity.Get(p.Bucket(role)) > 0
}

// Normalize recomputes the derived totals of an event from its bucket counts
func Normalize(e *domain.Event) {
	e.SetOccupancy(e.Taken)
	if e.Type == domain.EventTraining && e.TotalCapacity <= 0 {
		e.TotalCapacity = domain.DefaultTrainingCapacity
	}
}
