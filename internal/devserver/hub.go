package devserver

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
)

// hub - реестр открытых WebSocket-соединений dev-сервера.
// Сокеты уведомлений ключуются по userID, сокеты чата - по паре
// "кто смотрит -> на кого" (у клиента одно соединение на диалог).
type hub struct {
	mu     sync.RWMutex
	notifs map[string][]*wsClient          // userID -> соединения
	chats  map[string]map[string]*wsClient // userID -> peerID -> соединение
}

// wsClient - одно соединение с буферизованной очередью отправки.
type wsClient struct {
	conn *websocket.Conn
	send chan any
}

func newHub() *hub {
	return &hub{
		notifs: make(map[string][]*wsClient),
		chats:  make(map[string]map[string]*wsClient),
	}
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan any, 16),
	}
}

// writePump выкачивает очередь отправки в соединение.
// Запускается в отдельной горутине на клиента.
func (c *wsClient) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			logger.SocketLog("devserver", "write failed", err)
			return
		}
	}
}

// trySend кладет сообщение в очередь; переполненная очередь
// означает мертвого клиента - сообщение просто теряется.
func (c *wsClient) trySend(v any) {
	select {
	case c.send <- v:
	default:
	}
}

// --- notification sockets ---

func (h *hub) addNotif(userID string, c *wsClient) {
	h.mu.Lock()
	h.notifs[userID] = append(h.notifs[userID], c)
	h.mu.Unlock()
}

func (h *hub) removeNotif(userID string, c *wsClient) {
	h.mu.Lock()
	conns := h.notifs[userID]
	for i, existing := range conns {
		if existing == c {
			h.notifs[userID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	h.mu.Unlock()
}

// sendToUser толкает значение во все сокеты уведомлений пользователя.
func (h *hub) sendToUser(userID string, v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.notifs[userID] {
		c.trySend(v)
	}
}

// --- chat sockets ---

func (h *hub) addChat(userID, peerID string, c *wsClient) {
	h.mu.Lock()
	if h.chats[userID] == nil {
		h.chats[userID] = make(map[string]*wsClient)
	}
	h.chats[userID][peerID] = c
	h.mu.Unlock()
}

func (h *hub) removeChat(userID, peerID string, c *wsClient) {
	h.mu.Lock()
	if h.chats[userID][peerID] == c {
		delete(h.chats[userID], peerID)
		close(c.send)
	}
	h.mu.Unlock()
}

// sendToDialog доставляет сообщение в сокет userID, открытый
// на диалог с peerID. false - собеседник не смотрит этот диалог.
func (h *hub) sendToDialog(userID, peerID string, v any) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.chats[userID][peerID]
	if !ok {
		return false
	}
	c.trySend(v)
	return true
}
