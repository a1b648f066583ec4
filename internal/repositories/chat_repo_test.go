package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/BradenHooton/dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository_Contacts(t *testing.T) {
	repo := NewChatRepository(DefaultContacts(), nil)
	ctx := context.Background()

	contacts, err := repo.ListContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 5)

	contact, err := repo.GetContact(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Emily Davis", contact.Name)
	assert.Equal(t, models.PresenceAway, contact.Status)

	_, err = repo.GetContact(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestChatRepository_AppendAndList(t *testing.T) {
	initial := []*models.Message{
		{ID: "m1", ContactID: 1, SenderID: 1, SenderName: "Sarah Johnson", Body: "Hi!", SentAt: time.Now()},
	}
	repo := NewChatRepository(DefaultContacts(), initial)
	ctx := context.Background()

	require.NoError(t, repo.AppendMessage(ctx, &models.Message{ID: "m2", ContactID: 1, Body: "Hello", IsOwn: true}))

	msgs, err := repo.ListMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)

	// Returned messages are copies
	msgs[0].Body = "changed"
	again, _ := repo.ListMessages(ctx, 1)
	assert.Equal(t, "Hi!", again[0].Body)

	empty, err := repo.ListMessages(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestChatRepository_AppendUnknownContact(t *testing.T) {
	repo := NewChatRepository(DefaultContacts(), nil)

	err := repo.AppendMessage(context.Background(), &models.Message{ContactID: 42, Body: "hi"})

	assert.ErrorIs(t, err, models.ErrNotFound)
}
