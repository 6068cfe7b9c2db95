package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/engine"
)

// Portal errors
var (
	ErrRefreshFailed = errors.New("portal refresh failed")
)

// Snapshot is the working set a viewer's portal renders from
type Snapshot struct {
	Token       uint64                    `json:"token"`
	Stale       bool                      `json:"stale"`
	LastError   string                    `json:"last_error,omitempty"`
	RefreshedAt time.Time                 `json:"refreshed_at"`
	User        *domain.User              `json:"user"`
	Events      []domain.Event            `json:"events"`
	History     engine.History            `json:"history"`
	Payments    []domain.Payment          `json:"payments"`
	Stats       domain.UserStats          `json:"stats"`
	Progress    engine.GraduationProgress `json:"progress"`
	Compliance  engine.ComplianceRow      `json:"compliance"`
	Users       []domain.User             `json:"users,omitempty"`
}

func (s *Snapshot) clone() *Snapshot {
	out := *s
	out.Events = append([]domain.Event(nil), s.Events...)
	out.History = engine.History{
		Upcoming: append([]domain.Event{}, s.History.Upcoming...),
		Past:     append([]domain.Event{}, s.History.Past...),
	}
	return &out
}

// event returns the index of an event in the snapshot or -1
func (s *Snapshot) event(id string) int {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return i
		}
	}
	return -1
}

// PortalService keeps one snapshot per viewer and refreshes it on demand
type PortalService struct {
	store       *repositories.Store
	events      *EventService
	graduations *GraduationService

	mu        sync.Mutex
	issued    map[string]uint64
	snapshots map[string]*Snapshot
}

// NewPortalService creates a new portal service
func NewPortalService(store *repositories.Store, events *EventService, graduations *GraduationService) *PortalService {
	return &PortalService{
		store:       store,
		events:      events,
		graduations: graduations,
		issued:      make(map[string]uint64),
		snapshots:   make(map[string]*Snapshot),
	}
}

// Snapshot returns a copy of the viewer's current snapshot
func (s *PortalService) Snapshot(userID string) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, false
	}
	return snap.clone(), true
}

// Current returns the viewer's snapshot, loading it on first use
func (s *PortalService) Current(ctx context.Context, viewer Viewer) (*Snapshot, error) {
	if snap, ok := s.Snapshot(viewer.UserID); ok {
		return snap, nil
	}
	return s.Refresh(ctx, viewer)
}

// Refresh reloads the viewer's working set with one concurrent read per
// source. Any failing read fails the whole refresh: the previous snapshot is
// kept, flagged stale, and returned alongside the error. A refresh that
// finishes after a newer one has been committed is discarded.
func (s *PortalService) Refresh(ctx context.Context, viewer Viewer) (*Snapshot, error) {
	token := s.nextToken(viewer.UserID)
	now := nowFunc()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error

		user     *domain.User
		events   []domain.Event
		payments []domain.Payment
		stats    domain.UserStats
		users    []domain.User
	)
	fail := func(source string, err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", source, err)
		}
	}
	run := func(source string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				fail(source, err)
			}
		}()
	}

	run("user", func() (err error) {
		user, err = s.store.Users.GetByID(ctx, viewer.UserID)
		return err
	})
	run("events", func() (err error) {
		events, err = s.events.ListForViewer(ctx, viewer, engine.CategoryAll)
		return err
	})
	run("payments", func() (err error) {
		payments, err = s.store.Payments.ListByUser(ctx, viewer.UserID)
		return err
	})
	run("stats", func() (err error) {
		stats, err = s.graduations.Stats(ctx, viewer.UserID)
		return err
	})
	if viewer.IsStaff() {
		run("users", func() (err error) {
			users, _, err = s.store.Users.List(ctx, repositories.UserFilter{})
			return err
		})
	}
	wg.Wait()

	if firstErr != nil {
		log.Printf("❌ Portal refresh #%d for %s failed: %v", token, viewer.UserID, firstErr)
		return s.markStale(viewer.UserID, firstErr)
	}

	snap := &Snapshot{
		Token:       token,
		RefreshedAt: now,
		User:        user,
		Events:      events,
		History:     engine.PartitionHistory(events, now),
		Payments:    payments,
		Stats:       stats,
		Progress:    engine.Progress(stats),
		Compliance:  engine.Compliance(user, payments, now),
		Users:       users,
	}
	return s.commit(viewer.UserID, snap), nil
}

func (s *PortalService) nextToken(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[userID]++
	return s.issued[userID]
}

// commit stores snap unless a newer refresh already landed, and returns
// whatever snapshot is current afterwards
func (s *PortalService) commit(userID string, snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.snapshots[userID]; ok && current.Token > snap.Token {
		log.Printf("⚠️ Portal refresh #%d for %s superseded by #%d, discarded", snap.Token, userID, current.Token)
		return current.clone()
	}
	s.snapshots[userID] = snap
	return snap.clone()
}

func (s *PortalService) markStale(userID string, cause error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fmt.Errorf("%w: %v", ErrRefreshFailed, cause)
	current, ok := s.snapshots[userID]
	if !ok {
		return nil, err
	}
	current.Stale = true
	current.LastError = cause.Error()
	return current.clone(), err
}

// replace swaps the stored snapshot without touching its token
func (s *PortalService) replace(userID string, snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = snap.clone()
}

// patchEvent writes a freshly read event into the stored snapshot
func (s *PortalService) patchEvent(userID string, event *domain.Event) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.snapshots[userID]
	if !ok {
		return nil
	}
	next := current.clone()
	if i := next.event(event.ID); i >= 0 {
		next.Events[i] = *event
	} else {
		next.Events = append(next.Events, *event)
	}
	next.History = engine.PartitionHistory(next.Events, nowFunc())
	s.snapshots[userID] = next
	return next.clone()
}

// ToggleResult reports an optimistic registration toggle
type ToggleResult struct {
	Action   engine.Action           `json:"action"`
	Status   domain.AttendanceStatus `json:"status"`
	Event    domain.Event            `json:"event"`
	Snapshot *Snapshot               `json:"snapshot"`
}

// Toggle registers or unregisters the viewer optimistically: the snapshot
// moves first, the write follows, and a failed write is compensated.
// The event is re-read before the toggle so writes made outside the
// portal decide the action.
func (s *PortalService) Toggle(ctx context.Context, viewer Viewer, eventID string) (*ToggleResult, error) {
	if _, err := s.Current(ctx, viewer); err != nil {
		return nil, err
	}

	confirmed, err := s.events.GetEvent(ctx, viewer, eventID)
	if err != nil {
		return nil, err
	}
	snap := s.patchEvent(viewer.UserID, confirmed)
	if snap == nil {
		return nil, ErrRefreshFailed
	}

	cmd := NewRegistrationToggle(s, viewer, eventID)
	tentative, err := cmd.Apply(snap)
	if err != nil {
		return nil, err
	}
	s.replace(viewer.UserID, tentative)

	if err := cmd.Execute(ctx); err != nil {
		log.Printf("⚠️ Toggle %s on %s failed, compensating: %v", cmd.Action, eventID, err)
		restored := cmd.Compensate(ctx)
		event := eventOf(restored, eventID)
		return &ToggleResult{
			Action:   cmd.Action,
			Status:   event.ViewerStatus,
			Event:    event,
			Snapshot: restored,
		}, err
	}

	return &ToggleResult{
		Action:   cmd.Action,
		Status:   cmd.To,
		Event:    eventOf(tentative, eventID),
		Snapshot: tentative,
	}, nil
}

func eventOf(snap *Snapshot, eventID string) domain.Event {
	if snap == nil {
		return domain.Event{}
	}
	if i := snap.event(eventID); i >= 0 {
		return snap.Events[i]
	}
	return domain.Event{}
}

// RegistrationToggle is the optimistic register/unregister command.
// Apply computes the tentative snapshot without writing, Execute performs
// the write, Compensate restores the pre-apply state and re-fetches.
type RegistrationToggle struct {
	Viewer  Viewer
	EventID string
	Action  engine.Action
	From    domain.AttendanceStatus
	To      domain.AttendanceStatus

	portal   *PortalService
	previous *Snapshot
}

// NewRegistrationToggle creates a toggle command for one event
func NewRegistrationToggle(portal *PortalService, viewer Viewer, eventID string) *RegistrationToggle {
	return &RegistrationToggle{
		Viewer:  viewer,
		EventID: eventID,
		portal:  portal,
	}
}

// Apply moves the event to its next state in a copy of snap.
// A full event is rejected here, before any write.
func (c *RegistrationToggle) Apply(snap *Snapshot) (*Snapshot, error) {
	i := snap.event(c.EventID)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}

	c.previous = snap.clone()
	next := snap.clone()
	event := &next.Events[i]

	c.From = event.ViewerStatus
	c.Action = engine.ToggleAction(c.From)

	var err error
	if c.Action == engine.ActionRegister {
		c.To, err = engine.Register(event, c.Viewer.Role, c.From)
	} else {
		c.To, err = engine.Transition(c.From, c.Action)
	}
	if err != nil {
		return nil, err
	}

	engine.ApplyToEvent(event, c.Viewer.Role, c.From, c.To)
	next.History = engine.PartitionHistory(next.Events, nowFunc())
	return next, nil
}

// Execute performs the write the tentative state assumed
func (c *RegistrationToggle) Execute(ctx context.Context) error {
	var err error
	if c.Action == engine.ActionRegister {
		_, err = c.portal.events.Register(ctx, c.Viewer, c.EventID)
	} else {
		_, err = c.portal.events.Unregister(ctx, c.Viewer, c.EventID)
	}
	return err
}

// Compensate puts the pre-apply snapshot back and then re-fetches.
// When the re-fetch fails the restored snapshot stays, flagged stale.
func (c *RegistrationToggle) Compensate(ctx context.Context) *Snapshot {
	if c.previous != nil {
		c.portal.replace(c.Viewer.UserID, c.previous)
	}
	snap, err := c.portal.Refresh(ctx, c.Viewer)
	if err != nil && snap == nil {
		return c.previous
	}
	return snap
}
