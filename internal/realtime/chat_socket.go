package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/pkg/apperrors"
)

// ChatSocket держит ровно одно живое соединение на пару (recipient, token).
// Смена пары - ответственность вызывающего: закрыть старый сокет и
// создать новый. Без recipient или token сокет рождается в idle
// и никогда не подключается.
type ChatSocket struct {
	sock *socket
}

// NewChatSocket создает сокет диалога с указанным собеседником.
// onMessage получает каждый валидный входящий кадр; кадры, которые
// не распарсились как JSON, молча отбрасываются.
func NewChatSocket(wsBase, recipientID, token string, retry RetryPolicy, onMessage func(models.ChatMessage)) *ChatSocket {
	if recipientID == "" || token == "" {
		// idle: нет соединения, send - no-op
		return &ChatSocket{}
	}

	endpoint := fmt.Sprintf("%s/ws/chat/%s?token=%s",
		strings.TrimRight(wsBase, "/"),
		url.PathEscape(recipientID),
		url.QueryEscape(token),
	)

	cs := &ChatSocket{}
	cs.sock = newSocket("chat_socket", endpoint, retry, 0, func(data []byte) {
		var msg models.ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.SocketLog("chat_socket", "malformed frame dropped", err)
			return
		}
		onMessage(msg)
	})
	return cs
}

// Start открывает соединение. Для idle-сокета - no-op.
func (c *ChatSocket) Start(ctx context.Context) {
	if c.sock == nil {
		return
	}
	c.sock.start(ctx)
}

// Send сериализует произвольное значение в JSON и отправляет его,
// только если соединение сейчас открыто. Отправка во время
// connecting/closed тихо отбрасывается без очереди.
func (c *ChatSocket) Send(v any) error {
	if c.sock == nil {
		return apperrors.ErrSendDropped("chat_socket")
	}
	return c.sock.sendJSON(v)
}

// SendMessage - типизированная отправка текста с опциональным
// контекстом вакансии.
func (c *ChatSocket) SendMessage(text, jobID string) error {
	return c.Send(models.OutgoingChatMessage{Text: text, JobID: jobID})
}

// Connected сообщает, открыто ли соединение.
func (c *ChatSocket) Connected() bool {
	return c.sock != nil && c.sock.connected()
}

// Close синхронно закрывает соединение.
func (c *ChatSocket) Close() {
	if c.sock != nil {
		c.sock.close()
	}
}
