// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"heartline/internal/database"
	"heartline/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB returns a migrated in-memory SQLite database with the built-in
// roles present. A single connection keeps every query on the same database.
func OpenTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: database.NewGormLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.EnsureRoles(context.Background(), db))
	return db
}

// CreateUser inserts a user and grants roles in the given order.
func CreateUser(t testing.TB, db *gorm.DB, username string, roles ...string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		KnownAs:      username,
		Gender:       "female",
		DateOfBirth:  time.Date(1995, time.June, 1, 0, 0, 0, 0, time.UTC),
		City:         "Lisbon",
		Country:      "Portugal",
		PasswordHash: "x",
		LastActive:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(user).Error)

	base := time.Now().UTC()
	for i, name := range roles {
		var role models.Role
		require.NoError(t, db.Where("name = ?", name).First(&role).Error)
		grant := models.UserRole{UserID: user.ID, RoleID: role.ID, CreatedAt: base.Add(time.Duration(i) * time.Millisecond)}
		require.NoError(t, db.Omit("Role").Create(&grant).Error)
	}
	return user
}

// CreatePhoto inserts a photo owned by userID.
func CreatePhoto(t testing.TB, db *gorm.DB, userID uint, publicID *string, approved, main bool) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		URL:        "https://img.example.com/p.jpg",
		PublicID:   publicID,
		IsApproved: approved,
		IsMain:     main,
		UserID:     userID,
	}
	require.NoError(t, db.Omit("User").Create(photo).Error)
	return photo
}

// CreateLike inserts the directed edge source -> target.
func CreateLike(t testing.TB, db *gorm.DB, source, target uint) {
	t.Helper()
	like := &models.Like{SourceUserID: source, TargetUserID: target}
	require.NoError(t, db.Omit("SourceUser", "TargetUser").Create(like).Error)
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
