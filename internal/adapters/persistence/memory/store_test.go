package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/adapters/persistence/memory"
	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/adapters/persistence/storetest"
	"payaso-portal/internal/core/domain"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *repositories.Store {
		return memory.NewStore().Repositories()
	})
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	require.NoError(t, repos.Locations.Create(ctx, &domain.Location{Name: "Hospital", Kind: domain.LocationHospital, Active: true}))
	list, err := repos.Locations.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)

	store.Reset()

	list, err = repos.Locations.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	store := memory.NewStore()
	store.SetClock(func() time.Time { return fixed })
	repos := store.Repositories()

	reg := &domain.Registration{EventID: "e1", UserID: "u1", Bucket: domain.BucketDrPayaso}
	require.NoError(t, repos.Events.Register(ctx, reg))
	assert.True(t, reg.CreatedAt.Equal(fixed))
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	user := &domain.User{Email: "a@payaso.org", NationalID: "1", FullName: "A",
		Role: domain.RoleRecruit, AvailableRoles: []domain.Role{domain.RoleRecruit}, Status: domain.UserActive}
	require.NoError(t, repos.Users.Create(ctx, user))

	got, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.AvailableRoles[0] = domain.RoleAdmin
	got.FullName = "changed"

	again, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.FullName)
	assert.Equal(t, []domain.Role{domain.RoleRecruit}, again.AvailableRoles)
}
