package devserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

// Server - in-memory заглушка внешнего API для локальной разработки
// и интеграционных тестов клиента. Реализует все контракты, которые
// потребляет realtime-подсистема: оба WebSocket, SSE-поток вакансий
// и REST-эндпоинты уведомлений/чата.
type Server struct {
	secret string
	engine *gin.Engine
	hub    *hub
	stream *jobStream

	mu            sync.Mutex
	notifications map[string][]models.Notification // userID -> список, новейшие в голове
	dialogs       map[string][]models.ChatMessage  // dialogKey -> история
	unread        map[string]map[string]int        // userID -> partnerID -> count
	profiles      map[string]models.User           // userID -> профиль
}

// New создает dev-сервер с указанным JWT-секретом.
func New(secret string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		secret:        secret,
		hub:           newHub(),
		stream:        newJobStream(),
		notifications: make(map[string][]models.Notification),
		dialogs:       make(map[string][]models.ChatMessage),
		unread:        make(map[string]map[string]int),
		profiles:      make(map[string]models.User),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", s.handleLogin)

	r.GET("/notifications/", s.handleNotifications)
	r.POST("/notifications/mark-read/:id", s.handleMarkRead)
	r.POST("/notifications/mark-all-read", s.handleMarkAllRead)

	chat := r.Group("/chat/chat")
	{
		chat.GET("/recipients", s.handleRecipients)
		chat.GET("/messages/:partnerId", s.handleMessages)
	}

	r.GET("/job/stream", s.handleJobStream)
	r.POST("/jobs", s.handleCreateJob)

	r.GET("/ws", s.handleNotificationWS)
	r.GET("/ws/chat/:recipientId", s.handleChatWS)

	s.engine = r
	return s
}

// Handler возвращает http.Handler для httptest или http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run поднимает сервер на адресе addr (блокирует).
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// RegisterUser заводит пользователя и возвращает его токен.
func (s *Server) RegisterUser(id, name, role string) (string, error) {
	s.mu.Lock()
	s.profiles[id] = models.User{ID: id, Name: name, Role: role}
	s.mu.Unlock()
	return s.MintToken(id, role, 24*time.Hour)
}

// PushNotification кладет уведомление пользователю и толкает его
// в открытый сокет уведомлений, если тот подключен.
func (s *Server) PushNotification(userID string, n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Time == "" {
		n.Time = time.Now().UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	s.notifications[userID] = append([]models.Notification{n}, s.notifications[userID]...)
	s.mu.Unlock()

	s.hub.sendToUser(userID, n)
	return n
}

// PublishJob рассылает событие создания вакансии всем подписчикам
// SSE-потока.
func (s *Server) PublishJob(job models.Job) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	s.stream.publish(models.JobStreamEvent{Type: models.JobStreamEventCreated, Job: &job})
}

// dialogKey - симметричный ключ диалога (пара участников).
func dialogKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}
