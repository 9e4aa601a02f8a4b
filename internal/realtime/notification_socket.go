package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/validator"
)

// NotificationSocket держит одно соединение на авторизованную сессию
// и шлет keepalive-ping, чтобы промежуточные прокси не резали
// соединение по idle-таймауту. Это не прикладной heartbeat:
// ответы сервера никак специально не обрабатываются.
type NotificationSocket struct {
	sock *socket
}

// NewNotificationSocket создает сокет уведомлений.
// Без токена сокет idle. keepalive <= 0 отключает ping.
//
// Фильтрация входящих кадров: не-JSON, keepalive-кадры (type == "ping")
// и payload без id отбрасываются молча - id единственный ключ
// merge/de-dup в store, кадр без него бесполезен.
func NewNotificationSocket(wsBase, token string, keepalive time.Duration, retry RetryPolicy, onNotification func(models.Notification)) *NotificationSocket {
	if token == "" {
		return &NotificationSocket{}
	}

	endpoint := fmt.Sprintf("%s/ws?token=%s",
		strings.TrimRight(wsBase, "/"),
		url.QueryEscape(token),
	)

	v := validator.New()
	ns := &NotificationSocket{}
	ns.sock = newSocket("notification_socket", endpoint, retry, keepalive, func(data []byte) {
		var n models.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			logger.SocketLog("notification_socket", "malformed frame dropped", err)
			return
		}
		if n.IsPing() {
			return
		}
		if err := v.Validate(n); err != nil {
			logger.SocketLog("notification_socket", "invalid frame dropped", err)
			return
		}
		onNotification(n)
	})
	return ns
}

// Start открывает соединение и запускает keepalive. Для idle - no-op.
func (n *NotificationSocket) Start(ctx context.Context) {
	if n.sock == nil {
		return
	}
	n.sock.start(ctx)
}

// Connected сообщает, открыто ли соединение.
func (n *NotificationSocket) Connected() bool {
	return n.sock != nil && n.sock.connected()
}

// Close синхронно закрывает соединение и гасит keepalive-таймер.
// Обе операции происходят вместе, подвисший таймер не может
// писать в закрытый сокет.
func (n *NotificationSocket) Close() {
	if n.sock != nil {
		n.sock.close()
	}
}
