package repository

import (
	"testing"

	"github.com/brrock/ronotbroyt.xyz/internal/cache"
	"github.com/brrock/ronotbroyt.xyz/internal/database"
	"github.com/brrock/ronotbroyt.xyz/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database per test so cascade and
// ordering behavior runs against real transactions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// noCache is a pass-through cache so repositories always hit the DB in tests.
func noCache() *cache.Cache {
	return cache.New(nil, 0, 0)
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		ExternalID: "ext-" + username,
		Username:   username,
		Email:      username + "@example.com",
		Role:       role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}
