package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/pkg/apperrors"
)

// handleLogin - POST /auth/login. Упрощенный вход dev-сервера:
// профиль создается на лету, пароль не проверяется (аутентификация -
// забота боевого API, клиентской подсистеме нужен только токен).
func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		ID   string `json:"id" binding:"required"`
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleGinError(c, apperrors.ValidationError(err.Error()))
		return
	}

	token, err := s.RegisterUser(req.ID, req.Name, req.Role)
	if err != nil {
		apperrors.HandleGinError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": models.User{
			ID:    req.ID,
			Name:  req.Name,
			Role:  req.Role,
			Token: token,
		},
		"isAuthenticated": true,
	})
}

// handleNotifications - GET /notifications/?token=...
func (s *Server) handleNotifications(c *gin.Context) {
	userID, ok := s.userFromQueryToken(c)
	if !ok {
		return
	}

	s.mu.Lock()
	items := make([]models.Notification, len(s.notifications[userID]))
	copy(items, s.notifications[userID])
	s.mu.Unlock()

	if items == nil {
		items = []models.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

// handleMarkRead - POST /notifications/mark-read/:id?token=...
func (s *Server) handleMarkRead(c *gin.Context) {
	userID, ok := s.userFromQueryToken(c)
	if !ok {
		return
	}
	id := c.Param("id")

	s.mu.Lock()
	found := false
	for i := range s.notifications[userID] {
		if s.notifications[userID][i].ID == id {
			s.notifications[userID][i].Read = true
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		apperrors.HandleGinError(c, apperrors.ErrNotFound("/notifications/mark-read/"+id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleMarkAllRead - POST /notifications/mark-all-read?token=...
func (s *Server) handleMarkAllRead(c *gin.Context) {
	userID, ok := s.userFromQueryToken(c)
	if !ok {
		return
	}

	s.mu.Lock()
	for i := range s.notifications[userID] {
		s.notifications[userID][i].Read = true
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleRecipients - GET /chat/chat/recipients (Bearer)
func (s *Server) handleRecipients(c *gin.Context) {
	userID, ok := s.userFromBearer(c)
	if !ok {
		return
	}

	s.mu.Lock()
	recipients := []models.Recipient{}
	for partnerID, count := range s.unread[userID] {
		profile := s.profiles[partnerID]
		r := models.Recipient{
			ID:          partnerID,
			Name:        profile.Name,
			Avatar:      profile.Avatar,
			UnreadCount: count,
		}
		key := dialogKey(userID, partnerID)
		if history := s.dialogs[key]; len(history) > 0 {
			last := history[len(history)-1]
			r.LastMessage = last.Text
			r.LastMessageTime = last.Time
		}
		recipients = append(recipients, r)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, recipients)
}

// handleMessages - GET /chat/chat/messages/:partnerId (Bearer)
// Чтение истории обнуляет серверный счетчик непрочитанных для
// этого собеседника - тред открыт.
func (s *Server) handleMessages(c *gin.Context) {
	userID, ok := s.userFromBearer(c)
	if !ok {
		return
	}
	partnerID := c.Param("partnerId")

	s.mu.Lock()
	key := dialogKey(userID, partnerID)
	msgs := make([]models.ChatMessage, len(s.dialogs[key]))
	copy(msgs, s.dialogs[key])
	if s.unread[userID] != nil {
		s.unread[userID][partnerID] = 0
	}
	s.mu.Unlock()

	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, msgs)
}

// handleCreateJob - POST /jobs. Создает вакансию и рассылает
// job_created в SSE-поток.
func (s *Server) handleCreateJob(c *gin.Context) {
	var job models.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		apperrors.HandleGinError(c, apperrors.ValidationError(err.Error()))
		return
	}
	if job.PostedAt == "" {
		job.PostedAt = time.Now().UTC().Format(time.RFC3339)
	}

	s.PublishJob(job)
	c.JSON(http.StatusCreated, job)
}
