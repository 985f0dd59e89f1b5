package service

import (
	"context"
	"testing"

	"heartline/internal/models"
	"heartline/internal/repository"
	"heartline/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	svc := NewMessageService(repository.NewUnitOfWorkFactory(db))
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	sent, err := svc.SendMessage(ctx, alice.ID, CreateMessageRequest{RecipientUsername: "Bob", Content: " hello "})
	require.NoError(t, err)
	assert.Equal(t, "hello", sent.Content)
	assert.Equal(t, bob.ID, sent.RecipientID)
	assert.Nil(t, sent.DateRead)

	_, err = svc.SendMessage(ctx, alice.ID, CreateMessageRequest{RecipientUsername: "alice", Content: "me"})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	_, err = svc.SendMessage(ctx, alice.ID, CreateMessageRequest{RecipientUsername: "ghost", Content: "hi"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	_, err = svc.SendMessage(ctx, alice.ID, CreateMessageRequest{RecipientUsername: "bob", Content: "   "})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	// the sender's view leaves the message unread
	thread, err := svc.GetThread(ctx, alice.ID, "bob")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Nil(t, thread[0].DateRead)

	// the recipient's view marks it read
	thread, err = svc.GetThread(ctx, bob.ID, "alice")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.NotNil(t, thread[0].DateRead)

	var stored models.Message
	require.NoError(t, db.First(&stored, sent.ID).Error)
	assert.NotNil(t, stored.DateRead)
}
