package repository

import (
	"context"
	"testing"
	"time"

	"heartline/internal/models"
	"heartline/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_ThreadAndMarkRead(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	ctx := context.Background()
	now := time.Now().UTC()

	msg := func(from, to *models.User, content string, at time.Time) *models.Message {
		return &models.Message{
			SenderID: from.ID, SenderUsername: from.Username,
			RecipientID: to.ID, RecipientUsername: to.Username,
			Content: content, MessageSent: at,
		}
	}

	uow := NewUnitOfWork(db)
	uow.Messages().AddMessage(msg(alice, bob, "hi bob", now))
	uow.Messages().AddMessage(msg(bob, alice, "hi alice", now.Add(time.Second)))
	uow.Messages().AddMessage(msg(carol, alice, "unrelated", now))
	changed, err := uow.Complete(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	thread, err := uow.Messages().GetThread(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi bob", thread[0].Content)
	assert.Equal(t, "hi alice", thread[1].Content)

	uow.Messages().MarkRead([]uint{thread[1].ID}, now)
	changed, err = uow.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	thread, err = uow.Messages().GetThread(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, thread[0].DateRead)
	assert.NotNil(t, thread[1].DateRead)

	// marking nothing stages nothing
	uow.Messages().MarkRead(nil, now)
	assert.False(t, uow.HasChanges())
}
