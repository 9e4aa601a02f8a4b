package authstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/pkg/apperrors"
)

// StorageKey - фиксированный ключ, под которым живет состояние сессии.
// В браузерной версии это ключ local storage; здесь - имя файла.
const StorageKey = "auth-storage"

// Store - персистентное состояние {user, isAuthenticated}.
// Логика аутентификации живет во внешнем API; store только хранит
// результат и отдает bearer-токен остальной подсистеме.
type Store struct {
	path string

	mu    sync.Mutex
	state models.AuthState
}

// New открывает store по указанному пути и подхватывает
// сохраненное состояние, если оно есть. Битый или отсутствующий
// файл дает чистое неавторизованное состояние.
func New(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var state models.AuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return s
	}
	s.state = state
	return s
}

// SetUser сохраняет авторизованного пользователя и персистит состояние.
func (s *Store) SetUser(user *models.User) error {
	s.mu.Lock()
	s.state = models.AuthState{User: user, IsAuthenticated: user != nil}
	s.mu.Unlock()
	return s.save()
}

// Clear сбрасывает сессию.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.state = models.AuthState{}
	s.mu.Unlock()
	return s.save()
}

// State возвращает копию текущего состояния.
func (s *Store) State() models.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token возвращает bearer-токен или "" для неавторизованной сессии.
// Пустой токен означает для сокетов и REST-клиента режим idle.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAuthenticated || s.state.User == nil {
		return ""
	}
	return s.state.User.Token
}

// UserID возвращает id пользователя или "".
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.ID
}

// TokenExpired проверяет exp-claim токена без верификации подписи:
// подпись проверяет сервер, клиенту достаточно знать, что сессия
// заведомо протухла и подключаться бессмысленно.
func (s *Store) TokenExpired() (bool, error) {
	token := s.Token()
	if token == "" {
		return true, apperrors.NewUnauthorizedError("no active session")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true, apperrors.Wrap(err, apperrors.CodeInvalidToken, "auth", "Cannot parse session token", 0)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		// Токен без exp считаем вечным
		return false, nil
	}
	return exp.Before(time.Now()), nil
}

func (s *Store) save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}
