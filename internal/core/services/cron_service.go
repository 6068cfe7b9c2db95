package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
)

// SystemSender is the sender id of messages posted by scheduled jobs
const SystemSender = "system"

// reminderRoles are the operational groups that owe dues
var reminderRoles = []domain.Role{
	domain.RoleRecruit,
	domain.RoleDrPayaso,
	domain.RolePhotographer,
	domain.RoleVolunteer,
}

// CronService runs scheduled jobs
type CronService struct {
	cron        *cron.Cron
	messageRepo repositories.MessageRepository
	payments    *PaymentService
	spec        string
}

// NewCronService creates a new cron service
func NewCronService(store *repositories.Store, payments *PaymentService, cfg *config.Config) *CronService {
	return &CronService{
		cron:        cron.New(),
		messageRepo: store.Messages,
		payments:    payments,
		spec:        cfg.Cron.DuesReminder,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.RunDuesReminder(ctx); err != nil {
			log.Printf("❌ Dues reminder failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule dues reminder %q: %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("🚀 CronService started [dues reminder: %s]", s.spec)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// RunDuesReminder posts a reminder to the operational roles when someone
// is behind on this month's dues. It returns the message, or nil when
// everyone is up to date.
func (s *CronService) RunDuesReminder(ctx context.Context) (*domain.SystemMessage, error) {
	overview, err := s.payments.Treasury(ctx)
	if err != nil {
		return nil, err
	}
	if overview.NonCompliant == 0 {
		log.Printf("✅ Dues reminder: everyone is up to date for %s", overview.Month)
		return nil, nil
	}

	msg := &domain.SystemMessage{
		Subject: fmt.Sprintf("Recordatorio de cuota - %s", overview.Month),
		Body: fmt.Sprintf(
			"Hola! La cuota mensual de %s es de ₡%.0f. Si ya pagaste, reporta tu comprobante en el portal para que tesorería lo apruebe.",
			overview.Month, overview.MonthlyFee,
		),
		TargetRoles: reminderRoles,
		SentAt:      nowFunc(),
		SentBy:      SystemSender,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	log.Printf("✅ Dues reminder sent: %d volunteers behind for %s", overview.NonCompliant, overview.Month)
	return msg, nil
}
