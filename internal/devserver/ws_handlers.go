package devserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dev-сервер, проверка origin не нужна
	},
}

// handleNotificationWS - GET /ws?token=...
// Пушит уведомления пользователю; на литеральный "ping" от клиента
// отвечает keepalive-кадром {type:"ping"}, который клиент обязан
// отфильтровать.
func (s *Server) handleNotificationWS(c *gin.Context) {
	userID, ok := s.userFromQueryToken(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.SocketLog("devserver", "upgrade failed", err)
		return
	}

	client := newWSClient(conn)
	s.hub.addNotif(userID, client)
	go client.writePump()

	defer func() {
		s.hub.removeNotif(userID, client)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if string(data) == "ping" {
			client.trySend(models.Notification{Type: models.NotificationTypePing})
		}
	}
}

// handleChatWS - GET /ws/chat/:recipientId?token=...
// Принимает исходящие кадры {text, job_id}, назначает id и время,
// эхоит отправителю, доставляет собеседнику и поднимает ему
// уведомление типа "message".
func (s *Server) handleChatWS(c *gin.Context) {
	userID, ok := s.userFromQueryToken(c)
	if !ok {
		return
	}
	peerID := c.Param("recipientId")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.SocketLog("devserver", "upgrade failed", err)
		return
	}

	client := newWSClient(conn)
	s.hub.addChat(userID, peerID, client)
	go client.writePump()

	defer func() {
		s.hub.removeChat(userID, peerID, client)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var out models.OutgoingChatMessage
		if err := json.Unmarshal(data, &out); err != nil {
			logger.SocketLog("devserver", "malformed chat frame dropped", err)
			continue
		}

		msg := models.ChatMessage{
			ID:          uuid.NewString(),
			SenderID:    userID,
			RecipientID: peerID,
			Text:        out.Text,
			Time:        time.Now().UTC().Format(time.RFC3339),
			JobID:       out.JobID,
		}

		s.mu.Lock()
		key := dialogKey(userID, peerID)
		s.dialogs[key] = append(s.dialogs[key], msg)
		if s.unread[peerID] == nil {
			s.unread[peerID] = make(map[string]int)
		}
		s.unread[peerID][userID]++
		s.mu.Unlock()

		// эхо отправителю + доставка собеседнику, если диалог открыт
		client.trySend(msg)
		s.hub.sendToDialog(peerID, userID, msg)

		s.PushNotification(peerID, models.Notification{
			Type:        models.NotificationTypeMessage,
			Title:       "New message",
			Description: out.Text,
			Link:        "/chat/" + userID,
		})
	}
}
