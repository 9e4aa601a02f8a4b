package realtime

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

func TestNotificationSocket_FiltersPingAndIDLess(t *testing.T) {
	t.Parallel()

	frames := []string{
		`{"type":"ping"}`,    // keepalive-кадр сервера, без id
		`garbage`,            // не JSON
		`{"type":"alert","title":"no id"}`, // нет id - бесполезен для de-dup
		`{"id":"n1","type":"application","title":"Application viewed","read":false}`,
	}

	wsBase := startWSServer(t, func(conn *websocket.Conn, r *http.Request) {
		assert.Equal(t, "/ws", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	received := make(chan models.Notification, 8)
	sock := NewNotificationSocket(wsBase, "tok", 0, NoRetry{}, func(n models.Notification) {
		received <- n
	})
	sock.Start(context.Background())
	defer sock.Close()

	n := waitFor(t, received, "notification")
	assert.Equal(t, "n1", n.ID)

	// Ровно одно уведомление прошло фильтр
	select {
	case extra := <-received:
		t.Fatalf("frame should have been dropped: %+v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestNotificationSocket_SendsKeepalivePing(t *testing.T) {
	t.Parallel()

	pings := make(chan string, 8)
	wsBase := startWSServer(t, func(conn *websocket.Conn, _ *http.Request) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			pings <- string(data)
		}
	})

	sock := NewNotificationSocket(wsBase, "tok", 30*time.Millisecond, NoRetry{}, func(models.Notification) {})
	sock.Start(context.Background())
	defer sock.Close()

	// Литеральный "ping", не JSON
	assert.Equal(t, "ping", waitFor(t, pings, "keepalive ping"))
	assert.Equal(t, "ping", waitFor(t, pings, "second keepalive ping"))
}

func TestNotificationSocket_CloseStopsKeepalive(t *testing.T) {
	t.Parallel()

	pings := make(chan string, 64)
	wsBase := startWSServer(t, func(conn *websocket.Conn, _ *http.Request) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			pings <- string(data)
		}
	})

	sock := NewNotificationSocket(wsBase, "tok", 20*time.Millisecond, NoRetry{}, func(models.Notification) {})
	sock.Start(context.Background())

	waitFor(t, pings, "first ping")

	// Таймер и соединение гасятся вместе; тик после Close - no-op,
	// а не запись в мертвый сокет
	sock.Close()
	time.Sleep(100 * time.Millisecond)

	drained := len(pings)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, drained, len(pings), "после Close ни одного ping")
}

func TestNotificationSocket_IdleWithoutToken(t *testing.T) {
	t.Parallel()

	sock := NewNotificationSocket("ws://unused", "", time.Second, NoRetry{}, nil)
	sock.Start(context.Background())
	assert.False(t, sock.Connected())
	sock.Close()
}
