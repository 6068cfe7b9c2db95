package services

import (
	"context"
	"errors"
	"log"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
)

// Graduation errors
var (
	ErrNotRecruit           = errors.New("only recruits can request graduation")
	ErrNotEligible          = errors.New("graduation thresholds not met")
	ErrGraduationRequested  = errors.New("graduation already requested")
	ErrGraduationNotPending = errors.New("graduation request is not pending")
)

// GraduationService handles recruit promotion requests
type GraduationService struct {
	gradRepo repositories.GraduationRepository
	userRepo repositories.UserRepository
	events   *EventService
}

// NewGraduationService creates a new graduation service
func NewGraduationService(store *repositories.Store, events *EventService) *GraduationService {
	return &GraduationService{
		gradRepo: store.Graduations,
		userRepo: store.Users,
		events:   events,
	}
}

// GraduationStatusView is a recruit's progress with their latest request
type GraduationStatusView struct {
	Stats    domain.UserStats          `json:"stats"`
	Progress engine.GraduationProgress `json:"progress"`
	Request  *domain.GraduationRequest `json:"request,omitempty"`
}

// PendingGraduation is a pending request with fresh stats
type PendingGraduation struct {
	domain.GraduationRequest
	CurrentStats domain.UserStats          `json:"current_stats"`
	Progress     engine.GraduationProgress `json:"progress"`
}

// Stats returns attended activity plus whether a request is open
func (s *GraduationService) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	stats, err := s.events.Stats(ctx, userID)
	if err != nil {
		return stats, err
	}
	req, err := s.latest(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.GraduationRequested = req != nil && req.Status != domain.GraduationRejected
	return stats, nil
}

// Progress returns the percentages towards both thresholds
func (s *GraduationService) Progress(ctx context.Context, userID string) (*GraduationStatusView, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	req, err := s.latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GraduationStatusView{
		Stats:    stats,
		Progress: engine.Progress(stats),
		Request:  req,
	}, nil
}

// Request files a graduation request with a snapshot of the current stats
func (s *GraduationService) Request(ctx context.Context, userID string) (*domain.GraduationRequest, error) {
	// 1. Recruits only
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(domain.RoleRecruit) {
		return nil, ErrNotRecruit
	}

	// 2. One open request at a time
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats.GraduationRequested {
		return nil, ErrGraduationRequested
	}

	// 3. Thresholds
	if !engine.IsEligible(stats) {
		return nil, ErrNotEligible
	}

	stats.GraduationRequested = true
	req := &domain.GraduationRequest{
		UserID:       userID,
		UserFullName: user.FullName,
		UserPhoto:    user.PhotoURL,
		Stats:        stats,
		Status:       domain.GraduationPending,
		RequestedAt:  nowFunc(),
	}
	if err := s.gradRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("✅ Graduation requested: %s (%dh, %d visits)", user.Email, stats.TrainingHours, stats.VisitsCount)
	return req, nil
}

// ListPending returns open requests with freshly computed stats
func (s *GraduationService) ListPending(ctx context.Context) ([]PendingGraduation, error) {
	reqs, err := s.gradRepo.ListByStatus(ctx, domain.GraduationPending)
	if err != nil {
		return nil, err
	}

	out := make([]PendingGraduation, 0, len(reqs))
	for _, req := range reqs {
		stats, err := s.events.Stats(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		stats.GraduationRequested = true
		out = append(out, PendingGraduation{
			GraduationRequest: req,
			CurrentStats:      stats,
			Progress:          engine.Progress(stats),
		})
	}
	return out, nil
}

// Approve resolves a pending request and promotes the recruit to Dr. Payaso
func (s *GraduationService) Approve(ctx context.Context, id string) (*domain.GraduationRequest, error) {
	if _, err := s.pending(ctx, id); err != nil {
		return nil, err
	}
	if err := s.gradRepo.Approve(ctx, id, nowFunc()); err != nil {
		return nil, err
	}

	req, err := s.gradRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Graduation approved: %s is now %s", req.UserID, domain.RoleDrPayaso.DisplayName())
	return req, nil
}

// Reject resolves a pending request without promotion
func (s *GraduationService) Reject(ctx context.Context, id string) (*domain.GraduationRequest, error) {
	if _, err := s.pending(ctx, id); err != nil {
		return nil, err
	}
	if err := s.gradRepo.Reject(ctx, id, nowFunc()); err != nil {
		return nil, err
	}

	log.Printf("✅ Graduation rejected: %s", id)
	return s.gradRepo.GetByID(ctx, id)
}

func (s *GraduationService) pending(ctx context.Context, id string) (*domain.GraduationRequest, error) {
	req, err := s.gradRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.GraduationPending {
		return nil, ErrGraduationNotPending
	}
	return req, nil
}

// latest returns the newest request or nil when the user never asked
func (s *GraduationService) latest(ctx context.Context, userID string) (*domain.GraduationRequest, error) {
	req, err := s.gradRepo.GetLatestByUser(ctx, userID)
	if errors.Is(err, domain.ErrGraduationNotFound) {
		return nil, nil
	}
	return req, err
}
