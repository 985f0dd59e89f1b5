package repository

import (
	"context"
	"testing"

	"heartline/internal/models"
	"heartline/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoRepository_ListUnapproved(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	pending := testutil.CreatePhoto(t, db, alice.ID, nil, false, false)
	testutil.CreatePhoto(t, db, alice.ID, nil, true, true)

	photos, err := NewUnitOfWork(db).Photos().ListUnapproved(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, models.PhotoForApproval{
		ID:         pending.ID,
		URL:        pending.URL,
		Username:   "alice",
		IsApproved: false,
	}, photos[0])
}

func TestPhotoRepository_UpdateAndRemove(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	photo := testutil.CreatePhoto(t, db, alice.ID, nil, false, false)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	photo.IsApproved, photo.IsMain = true, true
	uow.Photos().Update(photo)
	changed, err := uow.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := uow.Photos().GetByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
	assert.True(t, stored.IsMain)

	owner, err := uow.Users().GetByPhotoID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, owner.ID)
	require.NotNil(t, owner.MainPhoto())

	uow.Photos().Remove(photo)
	changed, err = uow.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = uow.Photos().GetByID(ctx, photo.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
