package services

import (
	"context"
	"log"
	"strings"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/validator"
)

// LocationService manages the locations catalogue
type LocationService struct {
	locationRepo repositories.LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(store *repositories.Store) *LocationService {
	return &LocationService{locationRepo: store.Locations}
}

// LocationInput represents location create/update input
type LocationInput struct {
	Name    string `json:"name" validate:"required,notblank,max=150"`
	Address string `json:"address" validate:"max=255"`
	Type    string `json:"type" validate:"omitempty,oneof=hospital albergue escuela otro"`
}

func (in *LocationInput) kind() domain.LocationKind {
	if in.Type == "" {
		return domain.LocationOther
	}
	return domain.LocationKind(in.Type)
}

// List returns the catalogue; inactive entries only when asked
func (s *LocationService) List(ctx context.Context, includeInactive bool) ([]domain.Location, error) {
	return s.locationRepo.List(ctx, includeInactive)
}

// Create adds an active location
func (s *LocationService) Create(ctx context.Context, input *LocationInput) (*domain.Location, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	loc := &domain.Location{
		Name:    strings.TrimSpace(input.Name),
		Address: strings.TrimSpace(input.Address),
		Kind:    input.kind(),
		Active:  true,
	}
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}

	log.Printf("✅ Location created: %s", loc.Name)
	return loc, nil
}

// Update edits name, address and type
func (s *LocationService) Update(ctx context.Context, id string, input *LocationInput) (*domain.Location, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loc.Name = strings.TrimSpace(input.Name)
	loc.Address = strings.TrimSpace(input.Address)
	loc.Kind = input.kind()

	if err := s.locationRepo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// Toggle flips the active flag
func (s *LocationService) Toggle(ctx context.Context, id string) (*domain.Location, error) {
	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loc.Active = !loc.Active
	if err := s.locationRepo.SetActive(ctx, id, loc.Active); err != nil {
		return nil, err
	}

	log.Printf("✅ Location %s active=%t", loc.Name, loc.Active)
	return loc, nil
}
