package domain

import (
	"strings"
	"time"
)

// Role represents a volunteer role code as stored in user_roles
type Role string

const (
	RoleRecruit      Role = "recluta"
	RoleDrPayaso     Role = "dr_payaso"
	RolePhotographer Role = "fotografo"
	RoleVolunteer    Role = "otro"
	RoleBoard        Role = "junta_directiva"
	RoleTreasurer    Role = "tesorero"
	RoleAdmin        Role = "admin"
)

// AllRoles lists every known role, in primary-role priority order
var AllRoles = []Role{
	RoleAdmin,
	RoleBoard,
	RoleTreasurer,
	RoleDrPayaso,
	RolePhotographer,
	RoleRecruit,
	RoleVolunteer,
}

// ParseRole converts a role code into a Role
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// DisplayName returns the Spanish label shown to volunteers
func (r Role) DisplayName() string {
	switch r {
	case RoleRecruit:
		return "Recluta"
	case RoleDrPayaso:
		return "Dr. Payaso"
	case RolePhotographer:
		return "Fotógrafo"
	case RoleBoard:
		return "Junta Directiva"
	case RoleTreasurer:
		return "Tesorero"
	case RoleAdmin:
		return "Super Admin"
	default:
		return "Otro Voluntario"
	}
}

// IsAdministrative reports roles that see every event and manage the portal
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleBoard
}

// IsStaff reports roles with access to dashboards and the user list
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleBoard || r == RoleTreasurer
}

// IsFinance reports roles allowed to approve payments
func (r Role) IsFinance() bool {
	return r == RoleAdmin || r == RoleTreasurer
}

// PrimaryRole picks the role a profile starts with
func PrimaryRole(roles []Role) Role {
	for _, candidate := range AllRoles {
		for _, r := range roles {
			if r == candidate {
				return candidate
			}
		}
	}
	return RoleVolunteer
}

// UserStatus represents account status
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User represents a volunteer profile
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	NationalID        string     `json:"cedula"`
	FullName          string     `json:"full_name"`
	Phone             string     `json:"phone"`
	WhatsApp          string     `json:"whatsapp"`
	PhotoURL          string     `json:"photo_url"`
	CharacterPhotoURL string     `json:"character_photo_url,omitempty"`
	ArtisticName      string     `json:"artistic_name,omitempty"`
	Role              Role       `json:"role"`
	AvailableRoles    []Role     `json:"available_roles"`
	IsSuperAdmin      bool       `json:"is_super_admin"`
	Status            UserStatus `json:"status"`
	ValidUntil        string     `json:"valid_until,omitempty"`
	ExemptFromFees    bool       `json:"exempt_from_fees"`
	AdminNotes        string     `json:"admin_notes,omitempty"`
	Skills            string     `json:"skills,omitempty"`
	Address           string     `json:"address,omitempty"`
	PasswordHash      string     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// HasRole reports whether role is one of the user's available roles
func (u *User) HasRole(role Role) bool {
	for _, r := range u.AvailableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsActive reports whether the account is active
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// DisplayName is the persona name for Dr. Payaso volunteers, otherwise the full name
func (u *User) DisplayName() string {
	if u.ArtisticName != "" && u.HasRole(RoleDrPayaso) {
		return u.ArtisticName
	}
	return u.FullName
}

// EventType distinguishes trainings from hospital visits
type EventType string

const (
	EventTraining EventType = "training"
	EventVisit    EventType = "visit"
)

// DefaultTrainingCapacity is used when a training is created without a capacity
const DefaultTrainingCapacity = 50

// CapacityBucket is one of the four role partitions of a visit
type CapacityBucket string

const (
	BucketRecruit      CapacityBucket = "recruit"
	BucketDrPayaso     CapacityBucket = "dr_payaso"
	BucketPhotographer CapacityBucket = "photographer"
	BucketVolunteer    CapacityBucket = "volunteer"
)

// RoleCapacity holds one integer per capacity bucket
type RoleCapacity struct {
	Recruit      int `json:"recruit"`
	DrPayaso     int `json:"dr_payaso"`
	Photographer int `json:"photographer"`
	Volunteer    int `json:"volunteer"`
}

// Get returns the value for a bucket
func (c RoleCapacity) Get(b CapacityBucket) int {
	switch b {
	case BucketRecruit:
		return c.Recruit
	case BucketDrPayaso:
		return c.DrPayaso
	case BucketPhotographer:
		return c.Photographer
	default:
		return c.Volunteer
	}
}

// Add adds delta to a bucket
func (c *RoleCapacity) Add(b CapacityBucket, delta int) {
	switch b {
	case BucketRecruit:
		c.Recruit += delta
	case BucketDrPayaso:
		c.DrPayaso += delta
	case BucketPhotographer:
		c.Photographer += delta
	default:
		c.Volunteer += delta
	}
}

// Total sums every bucket
func (c RoleCapacity) Total() int {
	return c.Recruit + c.DrPayaso + c.Photographer + c.Volunteer
}

// AttendanceStatus is the tri-state status of a registration
type AttendanceStatus string

const (
	StatusUnregistered AttendanceStatus = ""
	StatusRegistered   AttendanceStatus = "registered"
	StatusAttended     AttendanceStatus = "attended"
	StatusAbsent       AttendanceStatus = "absent"
)

// Event represents a training or a visit
type Event struct {
	ID             string           `json:"id"`
	Type           EventType        `json:"type"`
	Title          string           `json:"title"`
	Date           time.Time        `json:"date"`
	Location       string           `json:"location"`
	LocationID     string           `json:"location_id,omitempty"`
	Description    string           `json:"description"`
	Capacity       RoleCapacity     `json:"capacity"`
	Taken          RoleCapacity     `json:"attendees_count"`
	TotalCapacity  int              `json:"total_capacity"`
	TotalAttendees int              `json:"total_attendees"`
	CreatedBy      string           `json:"created_by,omitempty"`
	Registered     bool             `json:"registered"`
	ViewerStatus   AttendanceStatus `json:"current_user_status,omitempty"`
}

// SetOccupancy stores per-bucket registration counts and the derived totals.
// Visits sum their buckets; trainings keep their flat capacity.
func (e *Event) SetOccupancy(taken RoleCapacity) {
	e.Taken = taken
	e.TotalAttendees = taken.Total()
	if e.Type == EventVisit {
		e.TotalCapacity = e.Capacity.Total()
	}
}

// Registration links a user to an event
type Registration struct {
	EventID   string           `json:"event_id"`
	UserID    string           `json:"user_id"`
	Bucket    CapacityBucket   `json:"bucket"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// AttendanceRecord is a registration joined with the attendee profile
type AttendanceRecord struct {
	UserID       string           `json:"user_id"`
	UserFullName string           `json:"user_full_name"`
	UserRole     string           `json:"user_role"`
	UserPhoto    string           `json:"user_photo"`
	Status       AttendanceStatus `json:"status"`
}

// PaymentStatus represents payment validation state
type PaymentStatus string

const (
	PaymentPaid            PaymentStatus = "paid"
	PaymentPendingApproval PaymentStatus = "pending_approval"
	PaymentRejected        PaymentStatus = "rejected"
)

// Payment represents a monthly dues payment
type Payment struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Amount      float64       `json:"amount"`
	Month       string        `json:"month"`
	DatePaid    *time.Time    `json:"date_paid,omitempty"`
	Status      PaymentStatus `json:"status"`
	ReferenceID string        `json:"reference_id,omitempty"`
	ReceiptURL  string        `json:"receipt_url,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// LocationKind classifies a location
type LocationKind string

const (
	LocationHospital LocationKind = "hospital"
	LocationShelter  LocationKind = "albergue"
	LocationSchool   LocationKind = "escuela"
	LocationOther    LocationKind = "otro"
)

// Location is reference data for events
type Location struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address,omitempty"`
	Kind    LocationKind `json:"type"`
	Active  bool         `json:"active"`
}

// UserStats accumulates a volunteer's attended activity
type UserStats struct {
	TrainingHours       int  `json:"training_hours"`
	VisitsCount         int  `json:"visits_count"`
	GraduationRequested bool `json:"graduation_requested"`
}

// GraduationStatus represents the state of a graduation request
type GraduationStatus string

const (
	GraduationPending  GraduationStatus = "pending"
	GraduationApproved GraduationStatus = "approved"
	GraduationRejected GraduationStatus = "rejected"
)

// GraduationRequest asks the board to promote a recruit
type GraduationRequest struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	UserFullName string           `json:"user_full_name,omitempty"`
	UserPhoto    string           `json:"user_photo,omitempty"`
	Stats        UserStats        `json:"stats"`
	Status       GraduationStatus `json:"status"`
	RequestedAt  time.Time        `json:"request_date"`
	ResolvedAt   *time.Time       `json:"resolved_at,omitempty"`
}

// ChatMessage is a message in an event chat
type ChatMessage struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserPhoto string    `json:"user_photo"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemMessage is a mass message sent to role groups
type SystemMessage struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	TargetRoles []Role    `json:"target_roles"`
	SentAt      time.Time `json:"sent_at"`
	SentBy      string    `json:"sent_by"`
}

// Targets reports whether a message is addressed to role
func (m *SystemMessage) Targets(role Role) bool {
	for _, r := range m.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}
