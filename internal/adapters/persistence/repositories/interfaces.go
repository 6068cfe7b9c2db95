package repositories

import (
	"context"
	"time"

	"payaso-portal/internal/core/domain"
)

// UserFilter narrows a user listing
type UserFilter struct {
	Search string
	Offset int
	Limit  int // 0 means no limit
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	SetActiveRole(ctx context.Context, id string, role domain.Role) error
	// ReplaceRoles swaps every role assignment of a user in one atomic step
	ReplaceRoles(ctx context.Context, id string, roles []domain.Role, active domain.Role) error
	SetPassword(ctx context.Context, id string, hash string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}

// EventRepository defines event repository interface.
// Events are returned with Taken and TotalAttendees filled from registrations.
type EventRepository interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) error
	GetRegistration(ctx context.Context, eventID, userID string) (*domain.Registration, error)
	Registrations(ctx context.Context, eventID string) ([]domain.Registration, error)
	RegistrationsByUser(ctx context.Context, userID string) ([]domain.Registration, error)
	// Register fails with domain.ErrAlreadyRegistered on a duplicate (event, user)
	Register(ctx context.Context, reg *domain.Registration) error
	Unregister(ctx context.Context, eventID, userID string) error
	SetAttendance(ctx context.Context, eventID, userID string, status domain.AttendanceStatus) error
	CountAttended(ctx context.Context, userID string, eventType domain.EventType) (int, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	List(ctx context.Context) ([]domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	Create(ctx context.Context, payment *domain.Payment) error
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, datePaid *time.Time) error
}

// LocationRepository defines location repository interface
type LocationRepository interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Location, error)
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	Create(ctx context.Context, location *domain.Location) error
	Update(ctx context.Context, location *domain.Location) error
	SetActive(ctx context.Context, id string, active bool) error
}

// GraduationRepository defines graduation request repository interface
type GraduationRepository interface {
	Create(ctx context.Context, req *domain.GraduationRequest) error
	GetByID(ctx context.Context, id string) (*domain.GraduationRequest, error)
	// GetLatestByUser returns domain.ErrGraduationNotFound when the user never asked
	GetLatestByUser(ctx context.Context, userID string) (*domain.GraduationRequest, error)
	ListByStatus(ctx context.Context, status domain.GraduationStatus) ([]domain.GraduationRequest, error)
	Reject(ctx context.Context, id string, at time.Time) error
	// Approve resolves the request and promotes recruit to dr_payaso atomically
	Approve(ctx context.Context, id string, at time.Time) error
}

// ChatRepository defines event chat repository interface
type ChatRepository interface {
	// ListByEvent returns messages after since, oldest first; zero since returns all
	ListByEvent(ctx context.Context, eventID string, since time.Time) ([]domain.ChatMessage, error)
	Create(ctx context.Context, msg *domain.ChatMessage) error
}

// MessageRepository defines mass message repository interface
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.SystemMessage) error
	List(ctx context.Context) ([]domain.SystemMessage, error)
}

// Store bundles every repository behind one injectable value
type Store struct {
	Users       UserRepository
	Events      EventRepository
	Payments    PaymentRepository
	Locations   LocationRepository
	Graduations GraduationRepository
	Chat        ChatRepository
	Messages    MessageRepository
}
