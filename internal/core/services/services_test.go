package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"payaso-portal/internal/adapters/persistence/memory"
	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/password"
)

// testNow sits before every seeded event
var testNow = time.Date(2024, time.June, 10, 10, 0, 0, 0, time.Local)

type testEnv struct {
	mem   *memory.Store
	store *repositories.Store
	cfg   *config.Config

	auth        *AuthService
	users       *UserService
	events      *EventService
	portal      *PortalService
	payments    *PaymentService
	graduations *GraduationService
	locations   *LocationService
	chat        *ChatService
	dashboard   *DashboardService
	cron        *CronService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	password.Cost = bcrypt.MinCost
	prevNow := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = prevNow })

	mem := memory.NewStore()
	mem.SetClock(func() time.Time { return testNow })
	store := mem.Repositories()
	require.NoError(t, config.NewSeeder(store).Run(context.Background()))

	cfg := &config.Config{
		JWT:      config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Treasury: config.TreasuryConfig{MonthlyFee: 5000},
		Cron:     config.CronConfig{DuesReminder: "30 8 1 * *"},
	}

	env := &testEnv{mem: mem, store: store, cfg: cfg}
	env.auth = NewAuthService(store, cfg)
	env.users = NewUserService(store)
	env.events = NewEventService(store)
	env.graduations = NewGraduationService(store, env.events)
	env.portal = NewPortalService(store, env.events, env.graduations)
	env.payments = NewPaymentService(store, cfg)
	env.locations = NewLocationService(store)
	env.chat = NewChatService(store, env.events)
	env.dashboard = NewDashboardService(store, env.events, env.graduations)
	env.cron = NewCronService(store, env.payments, cfg)
	return env
}

// Seeded viewers
var (
	drRisas   = Viewer{UserID: "u1", Role: domain.RoleDrPayaso}
	anaAdmin  = Viewer{UserID: "u2", Role: domain.RoleAdmin}
	pepito    = Viewer{UserID: "u3", Role: domain.RoleRecruit}
	carlaFoto = Viewer{UserID: "u4", Role: domain.RolePhotographer}
)

// attend registers a user and marks them attended
func (env *testEnv) attend(t *testing.T, userID string, event domain.Event, bucket domain.CapacityBucket) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.store.Events.Create(ctx, &event))
	require.NoError(t, env.store.Events.Register(ctx, &domain.Registration{
		EventID: event.ID, UserID: userID, Bucket: bucket, Status: domain.StatusAttended,
	}))
}
