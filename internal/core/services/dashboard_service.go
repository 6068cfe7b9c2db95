package services

import (
	"context"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
)

// TopLocationsCount is how many locations the impact dashboard ranks
const TopLocationsCount = 5

// DashboardService handles dashboard operations
type DashboardService struct {
	store       *repositories.Store
	events      *EventService
	graduations *GraduationService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *repositories.Store, events *EventService, graduations *GraduationService) *DashboardService {
	return &DashboardService{
		store:       store,
		events:      events,
		graduations: graduations,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	engine.ImpactStats

	// Pending work
	PendingPayments    int `json:"pending_payments"`
	PendingGraduations int `json:"pending_graduations"`
}

// GetAdminDashboard returns impact rollups over the whole store
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	users, _, err := s.store.Users.List(ctx, repositories.UserFilter{})
	if err != nil {
		return nil, err
	}
	events, err := s.store.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments.List(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.Graduations.ListByStatus(ctx, domain.GraduationPending)
	if err != nil {
		return nil, err
	}

	data := &AdminDashboardData{
		ImpactStats:        engine.BuildImpactStats(users, events, payments, TopLocationsCount),
		PendingGraduations: len(pending),
	}
	for _, p := range payments {
		if p.Status == domain.PaymentPendingApproval {
			data.PendingPayments++
		}
	}
	return data, nil
}

// ============================================================
// Volunteer Dashboard
// ============================================================

// VolunteerDashboardData represents a volunteer's home screen
type VolunteerDashboardData struct {
	User        *domain.User              `json:"user"`
	NextMission *domain.Event             `json:"next_mission"`
	Stats       domain.UserStats          `json:"stats"`
	Progress    engine.GraduationProgress `json:"progress"`
	Compliance  engine.ComplianceRow      `json:"compliance"`
}

// GetVolunteerDashboard returns the next mission, stats and dues status
func (s *DashboardService) GetVolunteerDashboard(ctx context.Context, viewer Viewer) (*VolunteerDashboardData, error) {
	user, err := s.store.Users.GetByID(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListForViewer(ctx, viewer, engine.CategoryAll)
	if err != nil {
		return nil, err
	}
	stats, err := s.graduations.Stats(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments.ListByUser(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	return &VolunteerDashboardData{
		User:        user,
		NextMission: engine.NextMission(events, now),
		Stats:       stats,
		Progress:    engine.Progress(stats),
		Compliance:  engine.Compliance(user, payments, now),
	}, nil
}
