package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payaso-portal/internal/core/domain"
)

// ============================================================
// Users & Roles
// ============================================================

// User represents profiles table
type User struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Email             string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	NationalID        string     `gorm:"column:cedula;uniqueIndex;size:30;not null" json:"cedula"`
	FullName          string     `gorm:"size:150;not null" json:"full_name"`
	Phone             string     `gorm:"size:30" json:"phone"`
	WhatsApp          string     `gorm:"column:whatsapp;size:30" json:"whatsapp"`
	PhotoURL          string     `gorm:"size:500" json:"photo_url"`
	CharacterPhotoURL string     `gorm:"size:500" json:"character_photo_url"`
	ArtisticName      string     `gorm:"size:100" json:"artistic_name"`
	ActiveRole        string     `gorm:"column:role;size:30;not null;default:'otro'" json:"role"`
	IsSuperAdmin      bool       `gorm:"default:false" json:"is_super_admin"`
	Status            string     `gorm:"size:20;default:'active'" json:"status"`
	ValidUntil        string     `gorm:"size:20" json:"valid_until"`
	ExemptFromFees    bool       `gorm:"default:false" json:"exempt_from_fees"`
	AdminNotes        string     `gorm:"type:text" json:"admin_notes"`
	Skills            string     `gorm:"type:text" json:"skills"`
	Address           string     `gorm:"size:255" json:"address"`
	Password          string     `gorm:"size:255;not null" json:"-"`
	Roles             []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "profiles"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserRole represents user_roles table
type UserRole struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role   string `gorm:"size:30;not null;uniqueIndex:idx_user_role" json:"role"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// ToDomain converts the row into a domain user
func (u *User) ToDomain() *domain.User {
	roles := make([]domain.Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, domain.Role(r.Role))
	}
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleVolunteer}
	}

	return &domain.User{
		ID:                u.ID,
		Email:             u.Email,
		NationalID:        u.NationalID,
		FullName:          u.FullName,
		Phone:             u.Phone,
		WhatsApp:          u.WhatsApp,
		PhotoURL:          u.PhotoURL,
		CharacterPhotoURL: u.CharacterPhotoURL,
		ArtisticName:      u.ArtisticName,
		Role:              domain.Role(u.ActiveRole),
		AvailableRoles:    roles,
		IsSuperAdmin:      u.IsSuperAdmin,
		Status:            domain.UserStatus(u.Status),
		ValidUntil:        u.ValidUntil,
		ExemptFromFees:    u.ExemptFromFees,
		AdminNotes:        u.AdminNotes,
		Skills:            u.Skills,
		Address:           u.Address,
		PasswordHash:      u.Password,
		CreatedAt:         u.CreatedAt,
	}
}

// UserFromDomain converts a domain user into a row
func UserFromDomain(d *domain.User) *User {
	u := &User{
		ID:                d.ID,
		Email:             d.Email,
		NationalID:        d.NationalID,
		FullName:          d.FullName,
		Phone:             d.Phone,
		WhatsApp:          d.WhatsApp,
		PhotoURL:          d.PhotoURL,
		CharacterPhotoURL: d.CharacterPhotoURL,
		ArtisticName:      d.ArtisticName,
		ActiveRole:        string(d.Role),
		IsSuperAdmin:      d.IsSuperAdmin,
		Status:            string(d.Status),
		ValidUntil:        d.ValidUntil,
		ExemptFromFees:    d.ExemptFromFees,
		AdminNotes:        d.AdminNotes,
		Skills:            d.Skills,
		Address:           d.Address,
		Password:          d.PasswordHash,
		CreatedAt:         d.CreatedAt,
	}
	for _, r := range d.AvailableRoles {
		u.Roles = append(u.Roles, UserRole{UserID: d.ID, Role: string(r)})
	}
	return u
}

// ============================================================
// Events & Registrations
// ============================================================

// Event represents eventos table
type Event struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Type            string    `gorm:"size:20;not null;index" json:"type"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Date            time.Time `gorm:"not null;index" json:"date"`
	LocationName    string    `gorm:"column:location;size:200" json:"location"`
	LocationID      *string   `gorm:"size:36;index" json:"location_id"`
	Description     string    `gorm:"type:text" json:"description"`
	CapRecruit      int       `gorm:"column:cupos_recluta;default:0" json:"cupos_recluta"`
	CapDrPayaso     int       `gorm:"column:cupos_dr_payaso;default:0" json:"cupos_dr_payaso"`
	CapPhotographer int       `gorm:"column:cupos_fotografo;default:0" json:"cupos_fotografo"`
	CapVolunteer    int       `gorm:"column:cupos_otro;default:0" json:"cupos_otro"`
	TotalCapacity   int       `gorm:"default:0" json:"total_capacity"`
	CreatedBy       string    `gorm:"size:36" json:"created_by"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "eventos"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the row into a domain event without occupancy
func (e *Event) ToDomain() *domain.Event {
	d := &domain.Event{
		ID:          e.ID,
		Type:        domain.EventType(e.Type),
		Title:       e.Title,
		Date:        e.Date,
		Location:    e.LocationName,
		Description: e.Description,
		Capacity: domain.RoleCapacity{
			Recruit:      e.CapRecruit,
			DrPayaso:     e.CapDrPayaso,
			Photographer: e.CapPhotographer,
			Volunteer:    e.CapVolunteer,
		},
		TotalCapacity: e.TotalCapacity,
		CreatedBy:     e.CreatedBy,
	}
	if e.LocationID != nil {
		d.LocationID = *e.LocationID
	}
	return d
}

// EventFromDomain converts a domain event into a row
func EventFromDomain(d *domain.Event) *Event {
	e := &Event{
		ID:              d.ID,
		Type:            string(d.Type),
		Title:           d.Title,
		Date:            d.Date,
		LocationName:    d.Location,
		Description:     d.Description,
		CapRecruit:      d.Capacity.Recruit,
		CapDrPayaso:     d.Capacity.DrPayaso,
		CapPhotographer: d.Capacity.Photographer,
		CapVolunteer:    d.Capacity.Volunteer,
		TotalCapacity:   d.TotalCapacity,
		CreatedBy:       d.CreatedBy,
	}
	if d.LocationID != "" {
		id := d.LocationID
		e.LocationID = &id
	}
	return e
}

// Registration represents registros_eventos table
type Registration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"size:36;not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_event_user;index" json:"user_id"`
	Bucket    string    `gorm:"size:20;not null" json:"bucket"`
	Status    string    `gorm:"size:20;not null;default:'registered'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Registration) TableName() string {
	return "registros_eventos"
}

// ToDomain converts the row into a domain registration
func (r *Registration) ToDomain() domain.Registration {
	return domain.Registration{
		EventID:   r.EventID,
		UserID:    r.UserID,
		Bucket:    domain.CapacityBucket(r.Bucket),
		Status:    domain.AttendanceStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// ============================================================
// Treasury
// ============================================================

// Payment represents pagos table
type Payment struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;not null;index" json:"user_id"`
	Amount      float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Month       string     `gorm:"size:50;not null" json:"month"`
	DatePaid    *time.Time `json:"date_paid"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	ReferenceID string     `gorm:"size:100" json:"reference_id"`
	ReceiptURL  string     `gorm:"size:500" json:"receipt_url"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "pagos"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the row into a domain payment
func (p *Payment) ToDomain() domain.Payment {
	return domain.Payment{
		ID:          p.ID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Month:       p.Month,
		DatePaid:    p.DatePaid,
		Status:      domain.PaymentStatus(p.Status),
		ReferenceID: p.ReferenceID,
		ReceiptURL:  p.ReceiptURL,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// PaymentFromDomain converts a domain payment into a row
func PaymentFromDomain(d *domain.Payment) *Payment {
	return &Payment{
		ID:          d.ID,
		UserID:      d.UserID,
		Amount:      d.Amount,
		Month:       d.Month,
		DatePaid:    d.DatePaid,
		Status:      string(d.Status),
		ReferenceID: d.ReferenceID,
		ReceiptURL:  d.ReceiptURL,
		Notes:       d.Notes,
	}
}

// ============================================================
// Reference data
// ============================================================

// Location represents locations table
type Location struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	Kind      string    `gorm:"column:type;size:20;not null" json:"type"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the row into a domain location
func (l *Location) ToDomain() domain.Location {
	return domain.Location{
		ID:      l.ID,
		Name:    l.Name,
		Address: l.Address,
		Kind:    domain.LocationKind(l.Kind),
		Active:  l.Active,
	}
}

// ============================================================
// Graduation
// ============================================================

// GraduationRequest represents graduation_requests table
type GraduationRequest struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        string     `gorm:"size:36;not null;index" json:"user_id"`
	TrainingHours int        `gorm:"not null" json:"training_hours"`
	VisitsCount   int        `gorm:"not null" json:"visits_count"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	RequestedAt   time.Time  `gorm:"not null" json:"request_date"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	User          *User      `gorm:"foreignKey:UserID" json:"-"`
}

func (GraduationRequest) TableName() string {
	return "graduation_requests"
}

func (g *GraduationRequest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the row into a domain request
func (g *GraduationRequest) ToDomain() domain.GraduationRequest {
	d := domain.GraduationRequest{
		ID:     g.ID,
		UserID: g.UserID,
		Stats: domain.UserStats{
			TrainingHours:       g.TrainingHours,
			VisitsCount:         g.VisitsCount,
			GraduationRequested: true,
		},
		Status:      domain.GraduationStatus(g.Status),
		RequestedAt: g.RequestedAt,
		ResolvedAt:  g.ResolvedAt,
	}
	if g.User != nil {
		d.UserFullName = g.User.FullName
		d.UserPhoto = g.User.PhotoURL
	}
	return d
}

// ============================================================
// Messaging
// ============================================================

// ChatMessage represents event_messages table
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	EventID   string    `gorm:"size:36;not null;index:idx_event_time" json:"event_id"`
	UserID    string    `gorm:"size:36;not null" json:"user_id"`
	UserName  string    `gorm:"size:150" json:"user_name"`
	UserPhoto string    `gorm:"size:500" json:"user_photo"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_event_time" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "event_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the row into a domain message
func (m *ChatMessage) ToDomain() domain.ChatMessage {
	return domain.ChatMessage{
		ID:        m.ID,
		EventID:   m.EventID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		UserPhoto: m.UserPhoto,
		Text:      m.Text,
		Timestamp: m.CreatedAt,
	}
}

// SystemMessage represents system_messages table
type SystemMessage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Subject     string    `gorm:"size:200;not null" json:"subject"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	TargetRoles string    `gorm:"size:255;not null" json:"target_roles"`
	SentBy      string    `gorm:"size:36" json:"sent_by"`
	SentAt      time.Time `gorm:"index" json:"sent_at"`
}

func (SystemMessage) TableName() string {
	return "system_messages"
}

func (m *SystemMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the row into a domain message
func (m *SystemMessage) ToDomain() domain.SystemMessage {
	roles := []domain.Role{}
	for _, r := range strings.Split(m.TargetRoles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, domain.Role(r))
		}
	}
	return domain.SystemMessage{
		ID:          m.ID,
		Subject:     m.Subject,
		Body:        m.Body,
		TargetRoles: roles,
		SentBy:      m.SentBy,
		SentAt:      m.SentAt,
	}
}

// JoinRoles flattens roles into the stored column format
func JoinRoles(roles []domain.Role) string {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

// AutoMigrate runs auto migration for all portal tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Users
		&User{},
		&UserRole{},
		// Events
		&Location{},
		&Event{},
		&Registration{},
		// Treasury
		&Payment{},
		// Graduation
		&GraduationRequest{},
		// Messaging
		&ChatMessage{},
		&SystemMessage{},
	)
}
