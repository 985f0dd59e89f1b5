package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"heartline/internal/config"
	"heartline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: NewGormLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestPersistentModels_IncludesDomainTables(t *testing.T) {
	var haveLike, haveRole bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.Like:
			haveLike = true
		case *models.UserRole:
			haveRole = true
		}
	}
	assert.True(t, haveLike, "PersistentModels should include Like")
	assert.True(t, haveRole, "PersistentModels should include UserRole")
}

func TestMigrateAndEnsureRoles(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	ctx := context.Background()
	require.NoError(t, EnsureRoles(ctx, db))
	// second run must not duplicate rows
	require.NoError(t, EnsureRoles(ctx, db))

	var names []string
	require.NoError(t, db.Model(&models.Role{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Admin", "Member", "Moderator"}, names)
}

func TestConfigurePool(t *testing.T) {
	db := openTestDB(t)
	configurePool(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "heartline"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=heartline sslmode=disable", DSN(cfg))
}

func TestQueryOperation(t *testing.T) {
	assert.Equal(t, "select", queryOperation(`SELECT * FROM "users"`))
	assert.Equal(t, "insert", queryOperation("  INSERT INTO likes"))
	assert.Equal(t, "other", queryOperation("PRAGMA foreign_keys"))
	assert.Equal(t, "other", queryOperation(""))
}
