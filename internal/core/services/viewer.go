package services

import (
	"time"

	"payaso-portal/internal/core/domain"
)

// nowFunc is the clock used by every service; tests pin it
var nowFunc = time.Now

// Viewer is the authenticated caller acting with one active role
type Viewer struct {
	UserID string
	Role   domain.Role
}

// IsStaff reports whether the viewer acts with a staff role
func (v Viewer) IsStaff() bool {
	return v.Role.IsStaff()
}
