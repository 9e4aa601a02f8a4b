package helpers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/devserver"
)

// TestEnv - поднятый в httptest dev-сервер плюс адреса, которые
// нужны клиентской подсистеме.
type TestEnv struct {
	Server  *devserver.Server
	APIBase string
	WSBase  string
}

// NewTestEnv поднимает изолированный dev-сервер для одного теста.
// Каждый тест получает свой экземпляр - никакого разделяемого
// состояния между параллельными тестами.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	srv := devserver.New("test-secret")
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)

	return &TestEnv{
		Server:  srv,
		APIBase: httpSrv.URL,
		WSBase:  "ws" + strings.TrimPrefix(httpSrv.URL, "http"),
	}
}

// Login регистрирует пользователя на dev-сервере и возвращает токен.
func (e *TestEnv) Login(t *testing.T, id, name, role string) string {
	t.Helper()

	token, err := e.Server.RegisterUser(id, name, role)
	if err != nil {
		t.Fatalf("Failed to register test user %s: %v", id, err)
	}
	return token
}
