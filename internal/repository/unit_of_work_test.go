package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"heartline/internal/models"
	"heartline/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUnitOfWork_CompleteWithoutChanges(t *testing.T) {
	db := testutil.OpenTestDB(t)
	uow := NewUnitOfWork(db)

	assert.False(t, uow.HasChanges())
	changed, err := uow.Complete(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUnitOfWork_CompleteAppliesStagedChanges(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	ctx := context.Background()

	uow := NewUnitOfWorkFactory(db).Begin()
	uow.Likes().AddLike(&models.Like{SourceUserID: alice.ID, TargetUserID: bob.ID})

	// staged only, not yet visible
	assert.True(t, uow.HasChanges())
	existing, err := uow.Likes().GetUserLike(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, existing)

	changed, err := uow.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, uow.HasChanges())

	existing, err = uow.Likes().GetUserLike(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, existing)
}

func TestUnitOfWork_CompleteIsAtomic(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateLike(t, db, alice.ID, bob.ID)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	uow.Likes().AddLike(&models.Like{SourceUserID: bob.ID, TargetUserID: alice.ID})
	// duplicate pair violates the primary key
	uow.Likes().AddLike(&models.Like{SourceUserID: alice.ID, TargetUserID: bob.ID})

	changed, err := uow.Complete(ctx)
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, models.HasCode(err, models.CodeOperation))

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "first insert must be rolled back")
}

func TestUnitOfWork_CompleteReportsZeroRows(t *testing.T) {
	db := testutil.OpenTestDB(t)
	uow := NewUnitOfWork(db)

	// deleting a pair that does not exist touches nothing
	uow.Likes().DeleteLike(&models.Like{SourceUserID: 1, TargetUserID: 2})
	changed, err := uow.Complete(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUnitOfWork_CompleteRollsBackOnStorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	uow := NewUnitOfWork(db)
	uow.Likes().AddLike(&models.Like{SourceUserID: 1, TargetUserID: 2})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	changed, err := uow.Complete(context.Background())
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, models.HasCode(err, models.CodeOperation))
	assert.True(t, uow.HasChanges(), "failed changes stay staged")
	assert.NoError(t, mock.ExpectationsWereMet())
}
