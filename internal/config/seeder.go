package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/password"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "payaso123"

// Seeder handles demo data seeding for either data source
type Seeder struct {
	store *repositories.Store
}

// NewSeeder creates a new seeder instance
func NewSeeder(store *repositories.Store) *Seeder {
	return &Seeder{store: store}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running demo data seeders...")

	_, total, err := s.store.Users.List(ctx, repositories.UserFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if total > 0 {
		log.Println("⚠️ Demo seed skipped: users already exist")
		return nil
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", s.seedUsers},
		{"locations", s.seedLocations},
		{"events", s.seedEvents},
		{"registrations", s.seedRegistrations},
		{"payments", s.seedPayments},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	log.Println("✅ Demo data seeding completed")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	hashed, err := password.Hash(DemoPassword)
	if err != nil {
		return err
	}

	users := []domain.User{
		{
			ID: "u1", Email: "dr.risas@payaso.org", NationalID: "1-1111-1111", FullName: "Juan Pérez",
			Phone: "8888-8888", WhatsApp: "8888-8888", ArtisticName: "Dr. Risas",
			Role: domain.RoleDrPayaso, AvailableRoles: []domain.Role{domain.RoleDrPayaso},
			ValidUntil: "2025-12-31", AdminNotes: "Líder de equipo muy activo.", Skills: "Globolexia, Magia básica",
		},
		{
			ID: "u2", Email: "ana.admin@payaso.org", NationalID: "2-2222-2222", FullName: "Ana Gómez",
			Phone: "9999-9999", WhatsApp: "9999-9999",
			Role: domain.RoleAdmin, AvailableRoles: []domain.Role{domain.RoleAdmin, domain.RoleBoard},
			IsSuperAdmin: true, ValidUntil: "2030-01-01", AdminNotes: "Encargada de logística.",
			Skills: "Contabilidad, Excel", ExemptFromFees: true,
		},
		{
			ID: "u3", Email: "pepito.recluta@payaso.org", NationalID: "3-3333-3333", FullName: "Pepito López",
			Phone: "7777-7777", WhatsApp: "7777-7777",
			Role: domain.RoleRecruit, AvailableRoles: []domain.Role{domain.RoleRecruit},
			ValidUntil: "2024-12-31", AdminNotes: "Falta entregar comprobante de pago mayo.", Skills: "Tocar guitarra",
		},
		{
			ID: "u4", Email: "foto.carla@payaso.org", NationalID: "4-4444-4444", FullName: "Carla Zoom",
			Phone: "6666-6666", WhatsApp: "6666-6666",
			Role: domain.RolePhotographer, AvailableRoles: []domain.Role{domain.RolePhotographer, domain.RoleVolunteer},
			ValidUntil: "2025-06-30", Skills: "Fotografía profesional, Edición", ExemptFromFees: true,
		},
		{
			ID: "u5", Email: "dr.chiflado@payaso.org", NationalID: "5-5555-5555", FullName: "Roberto Méndez",
			Phone: "8899-0011", WhatsApp: "8899-0011", ArtisticName: "Dr. Chiflado",
			Role:           domain.RoleDrPayaso,
			AvailableRoles: []domain.Role{domain.RoleDrPayaso, domain.RoleAdmin, domain.RolePhotographer},
			IsSuperAdmin:   true, ValidUntil: "2030-12-31", AdminNotes: "Miembro fundador. Multitasking.",
			Skills: "Malabares, Liderazgo",
		},
	}

	for i := range users {
		users[i].Status = domain.UserActive
		users[i].PasswordHash = hashed
		if err := s.store.Users.Create(ctx, &users[i]); err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded %d users (password: %s)", len(users), DemoPassword)
	return nil
}

func (s *Seeder) seedLocations(ctx context.Context) error {
	locations := []domain.Location{
		{ID: "l1", Name: "Hospital Nacional de Niños", Kind: domain.LocationHospital, Address: "San José, Centro"},
		{ID: "l2", Name: "Hogar de Ancianos San Pedro", Kind: domain.LocationShelter, Address: "San Pedro, Montes de Oca"},
		{ID: "l3", Name: "Hospital San Juan de Dios", Kind: domain.LocationHospital, Address: "San José, Paseo Colón"},
		{ID: "l4", Name: "Albergue Sueños de Esperanza", Kind: domain.LocationShelter, Address: "Desamparados"},
		{ID: "l5", Name: "Sede Central - Sala de Ensayos", Kind: domain.LocationOther, Address: "Barrio Escalante"},
	}
	for i := range locations {
		locations[i].Active = true
		if err := s.store.Locations.Create(ctx, &locations[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedEvents(ctx context.Context) error {
	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2024, month, day, hour, 0, 0, 0, time.Local)
	}

	events := []domain.Event{
		{
			ID: "e1", Type: domain.EventVisit, Title: "Visita Hospital de Niños", Date: at(time.June, 15, 9),
			Location: "Hospital Nacional de Niños", LocationID: "l1",
			Description: "Visita general. Prioridad Dr. Payaso. Fotógrafos bienvenidos.",
			Capacity:    domain.RoleCapacity{Recruit: 2, DrPayaso: 4, Photographer: 1, Volunteer: 1},
		},
		{
			ID: "e2", Type: domain.EventTraining, Title: "Taller de Improvisación", Date: at(time.June, 20, 18),
			Location: "Sede Central - Sala de Ensayos", LocationID: "l5",
			Description:   "Entrenamiento para todos.",
			Capacity:      domain.RoleCapacity{Recruit: 10, DrPayaso: 10},
			TotalCapacity: 20,
		},
		{
			ID: "e3", Type: domain.EventVisit, Title: "Visita Geriátrico San Pedro", Date: at(time.June, 22, 10),
			Location: "Hogar de Ancianos San Pedro", LocationID: "l2",
			Description: "Solo para Drs. Payaso y Reclutas.",
			Capacity:    domain.RoleCapacity{Recruit: 3, DrPayaso: 3},
		},
		{
			ID: "e4", Type: domain.EventTraining, Title: "Inducción Nuevos Ingresos", Date: at(time.July, 1, 18),
			Location: "Sede Central - Sala de Ensayos", LocationID: "l5",
			Description:   "EXCLUSIVO RECLUTAS.",
			Capacity:      domain.RoleCapacity{Recruit: 30},
			TotalCapacity: 30,
		},
	}
	for i := range events {
		events[i].CreatedBy = "u2"
		if err := s.store.Events.Create(ctx, &events[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedRegistrations(ctx context.Context) error {
	regs := []domain.Registration{
		{EventID: "e1", UserID: "u1", Bucket: domain.BucketDrPayaso, Status: domain.StatusAttended},
		{EventID: "e1", UserID: "u5", Bucket: domain.BucketDrPayaso, Status: domain.StatusAttended},
		{EventID: "e1", UserID: "u3", Bucket: domain.BucketRecruit, Status: domain.StatusAttended},
		{EventID: "e1", UserID: "u4", Bucket: domain.BucketPhotographer, Status: domain.StatusAbsent},
		{EventID: "e2", UserID: "u3", Bucket: domain.BucketRecruit, Status: domain.StatusAttended},
		{EventID: "e3", UserID: "u3", Bucket: domain.BucketRecruit, Status: domain.StatusRegistered},
		{EventID: "e4", UserID: "u3", Bucket: domain.BucketRecruit, Status: domain.StatusAttended},
	}
	for i := range regs {
		if err := s.store.Events.Register(ctx, &regs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPayments(ctx context.Context) error {
	paid := func(month time.Month, day int) *time.Time {
		t := time.Date(2024, month, day, 0, 0, 0, 0, time.Local)
		return &t
	}

	payments := []domain.Payment{
		{ID: "p1", UserID: "u1", Amount: 5000, Month: "Enero 2024", DatePaid: paid(time.January, 5), Status: domain.PaymentPaid},
		{ID: "p2", UserID: "u1", Amount: 5000, Month: "Febrero 2024", DatePaid: paid(time.February, 3), Status: domain.PaymentPaid},
		{ID: "p3", UserID: "u1", Amount: 5000, Month: "Marzo 2024", DatePaid: paid(time.March, 10), Status: domain.PaymentPaid},
		{ID: "p4", UserID: "u1", Amount: 5000, Month: "Abril 2024", Status: domain.PaymentPendingApproval},
	}
	for i := range payments {
		if err := s.store.Payments.Create(ctx, &payments[i]); err != nil {
			return err
		}
	}
	return nil
}
