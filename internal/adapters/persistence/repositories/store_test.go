package repositories_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/adapters/persistence/storetest"
)

// openSQLite returns a private in-memory database migrated with the production models
func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestGormStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *repositories.Store {
		return repositories.NewGormStore(openSQLite(t))
	})
}
