package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_NotificationsRoundTrip(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)

	empty, err := c.LoadNotifications()
	require.NoError(t, err)
	assert.Empty(t, empty)

	items := []models.Notification{
		{ID: "n2", Type: models.NotificationTypeMessage, Title: "New message", Read: false, Link: "/chat/u2"},
		{ID: "n1", Type: models.NotificationTypeApplication, Title: "Viewed", Description: "Your application was viewed", Time: "2025-01-01T10:00:00Z", Read: true},
	}
	require.NoError(t, c.SaveNotifications(items))

	loaded, err := c.LoadNotifications()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	// порядок списка сохраняется
	assert.Equal(t, "n2", loaded[0].ID)
	assert.Equal(t, models.NotificationTypeMessage, loaded[0].Type)
	assert.False(t, loaded[0].Read)
	assert.Equal(t, "/chat/u2", loaded[0].Link)
	assert.True(t, loaded[1].Read)
}

func TestCache_SaveReplacesSnapshot(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)
	require.NoError(t, c.SaveNotifications([]models.Notification{
		{ID: "old", Type: models.NotificationTypeAlert},
	}))

	// replace-all: прежний снапшот вытесняется целиком
	require.NoError(t, c.SaveNotifications([]models.Notification{
		{ID: "new1", Type: models.NotificationTypeAlert},
		{ID: "new2", Type: models.NotificationTypeAlert},
	}))

	loaded, err := c.LoadNotifications()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "new1", loaded[0].ID)
}

func TestCache_MessagesPerPartner(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)

	msgsAlice := []models.ChatMessage{
		{ID: "m1", SenderID: "alice", RecipientID: "me", Text: "hi", Time: "2025-01-01T00:00:00Z"},
		{ID: "m2", SenderID: "me", RecipientID: "alice", Text: "hello", Time: "2025-01-01T00:00:05Z", JobID: "j1"},
	}
	require.NoError(t, c.SaveMessages("alice", msgsAlice))
	require.NoError(t, c.SaveMessages("bob", []models.ChatMessage{
		{ID: "m3", SenderID: "bob", RecipientID: "me", Text: "yo"},
	}))

	loaded, err := c.LoadMessages("alice")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "m1", loaded[0].ID)
	assert.Equal(t, "j1", loaded[1].JobID)

	other, err := c.LoadMessages("bob")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	none, err := c.LoadMessages("nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
