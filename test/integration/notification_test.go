package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/api"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/realtime"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/stores"
	"github.com/sujnankumar/job-portal-frontend-sub001/test/helpers"
)

// TestNotification_SeedPushMarkRead - E2E "золотой путь" уведомлений:
// REST-seed -> push через сокет -> mark-read с подтверждением на сервере.
func TestNotification_SeedPushMarkRead(t *testing.T) {
	t.Parallel()

	env := helpers.NewTestEnv(t)
	token := env.Login(t, "u1", "Alice", "job_seeker")

	// На сервере уже лежат два уведомления
	seeded := env.Server.PushNotification("u1", models.Notification{
		Type: models.NotificationTypeApplication, Title: "Application viewed",
	})
	env.Server.PushNotification("u1", models.Notification{
		Type: models.NotificationTypeAlert, Title: "Old alert", Read: true,
	})

	apiClient := api.NewClient(env.APIBase, token)
	store := stores.NewNotificationStore(apiClient)

	// 1. Seed снапшотом с сервера
	items, err := apiClient.Notifications(context.Background())
	require.NoError(t, err)
	store.ReplaceAll(items)
	assert.Equal(t, 1, store.Unread())
	t.Logf("УВЕДОМЛЕНИЯ: seed - %d, непрочитанных - 1 - Успешно.", len(items))

	// 2. Подключаем сокет и пушим третье уведомление
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sock := realtime.NewNotificationSocket(env.WSBase, token, 0, realtime.NoRetry{}, func(n models.Notification) {
		store.Prepend(n)
	})
	sock.Start(ctx)
	defer sock.Close()

	eventually(t, sock.Connected, "notification socket did not connect")

	pushed := env.Server.PushNotification("u1", models.Notification{
		Type: models.NotificationTypeInterview, Title: "Interview scheduled",
	})

	eventually(t, func() bool { return store.Unread() == 2 }, "pushed notification did not arrive")
	snap := store.Snapshot()
	assert.Equal(t, pushed.ID, snap.Items[0].ID, "push встает в голову списка")

	// 3. Mark-read уходит на сервер
	require.NoError(t, store.MarkRead(context.Background(), seeded.ID))
	assert.Equal(t, 1, store.Unread())

	serverItems, err := apiClient.Notifications(context.Background())
	require.NoError(t, err)
	for _, n := range serverItems {
		if n.ID == seeded.ID {
			assert.True(t, n.Read, "сервер подтвердил mark-read")
		}
	}
	t.Logf("УВЕДОМЛЕНИЯ: mark-read подтвержден сервером - Успешно.")
}

// TestNotification_ServerKeepaliveFiltered - серверный ответ на ping
// (кадр {type:"ping"} без id) не доходит ни до обработчика, ни до store.
func TestNotification_ServerKeepaliveFiltered(t *testing.T) {
	t.Parallel()

	env := helpers.NewTestEnv(t)
	token := env.Login(t, "u1", "Alice", "job_seeker")

	store := stores.NewNotificationStore(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// keepalive каждые 30ms - сервер отвечает ping-кадром на каждый
	sock := realtime.NewNotificationSocket(env.WSBase, token, 30*time.Millisecond, realtime.NoRetry{}, func(n models.Notification) {
		store.Prepend(n)
	})
	sock.Start(ctx)
	defer sock.Close()

	eventually(t, sock.Connected, "socket did not connect")

	// Даем времени на несколько keepalive-циклов
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 0, store.Unread(), "ping-кадры не попадают в store")
	assert.Empty(t, store.Snapshot().Items)

	// Настоящее уведомление при этом проходит
	env.Server.PushNotification("u1", models.Notification{
		Type: models.NotificationTypeJob, Title: "New job for you",
	})
	eventually(t, func() bool { return store.Unread() == 1 }, "real notification blocked")
}

// TestNotification_MarkAllRead - mark-all-read обнуляет счетчик локально
// и на сервере одним запросом.
func TestNotification_MarkAllRead(t *testing.T) {
	t.Parallel()

	env := helpers.NewTestEnv(t)
	token := env.Login(t, "u1", "Alice", "job_seeker")

	for i := 0; i < 3; i++ {
		env.Server.PushNotification("u1", models.Notification{
			Type: models.NotificationTypeAlert, Title: "Alert",
		})
	}

	apiClient := api.NewClient(env.APIBase, token)
	store := stores.NewNotificationStore(apiClient)

	items, err := apiClient.Notifications(context.Background())
	require.NoError(t, err)
	store.ReplaceAll(items)
	require.Equal(t, 3, store.Unread())

	require.NoError(t, store.MarkAllRead(context.Background()))
	assert.Equal(t, 0, store.Unread())

	serverItems, err := apiClient.Notifications(context.Background())
	require.NoError(t, err)
	for _, n := range serverItems {
		assert.True(t, n.Read)
	}
}
