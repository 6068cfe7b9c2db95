// Package memory is the in-memory data source used for demos and tests.
// It implements the same repository interfaces as the database store.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
)

type regKey struct {
	eventID string
	userID  string
}

// Store holds every table behind a single lock so multi-row writes stay atomic
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users         map[string]*domain.User
	userOrder     []string
	events        map[string]*domain.Event
	eventOrder    []string
	registrations map[regKey]*domain.Registration
	regOrder      []regKey
	payments      map[string]*domain.Payment
	paymentOrder  []string
	locations     map[string]*domain.Location
	locationOrder []string
	graduations   map[string]*domain.GraduationRequest
	gradOrder     []string
	chat          []domain.ChatMessage
	messages      []domain.SystemMessage
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{now: time.Now}
	s.Reset()
	return s
}

// Reset drops every row
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*domain.User)
	s.userOrder = nil
	s.events = make(map[string]*domain.Event)
	s.eventOrder = nil
	s.registrations = make(map[regKey]*domain.Registration)
	s.regOrder = nil
	s.payments = make(map[string]*domain.Payment)
	s.paymentOrder = nil
	s.locations = make(map[string]*domain.Location)
	s.locationOrder = nil
	s.graduations = make(map[string]*domain.GraduationRequest)
	s.gradOrder = nil
	s.chat = nil
	s.messages = nil
}

// SetClock overrides the time source used for created-at stamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Store {
	return &repositories.Store{
		Users:       &userRepository{s},
		Events:      &eventRepository{s},
		Payments:    &paymentRepository{s},
		Locations:   &locationRepository{s},
		Graduations: &graduationRepository{s},
		Chat:        &chatRepository{s},
		Messages:    &messageRepository{s},
	}
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func removeKey[K comparable](order []K, key K) []K {
	for i, k := range order {
		if k == key {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
