package authstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestAuthStore_PersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), StorageKey+".json")

	s := New(path)
	assert.Empty(t, s.Token(), "чистый store не авторизован")

	user := &models.User{ID: "u1", Name: "Alice", Role: "job_seeker", Token: "tok-123"}
	require.NoError(t, s.SetUser(user))

	// Перезапуск: новый store с тем же путем подхватывает состояние
	restarted := New(path)
	state := restarted.State()
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, "tok-123", restarted.Token())
	assert.Equal(t, "u1", restarted.UserID())
}

func TestAuthStore_Clear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), StorageKey+".json")
	s := New(path)
	require.NoError(t, s.SetUser(&models.User{ID: "u1", Token: "tok"}))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	assert.False(t, s.State().IsAuthenticated)

	restarted := New(path)
	assert.Empty(t, restarted.Token())
}

func TestAuthStore_CorruptFileYieldsCleanState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), StorageKey+".json")
	require.NoError(t, os.WriteFile(path, []byte("{broken json"), 0o600))

	s := New(path)
	assert.Empty(t, s.Token())
	assert.False(t, s.State().IsAuthenticated)
}

func TestAuthStore_TokenExpiry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), StorageKey+".json")
	s := New(path)

	// Живой токен
	require.NoError(t, s.SetUser(&models.User{ID: "u1", Token: mintToken(t, time.Hour)}))
	expired, err := s.TokenExpired()
	require.NoError(t, err)
	assert.False(t, expired)

	// Протухший токен
	require.NoError(t, s.SetUser(&models.User{ID: "u1", Token: mintToken(t, -time.Hour)}))
	expired, err = s.TokenExpired()
	require.NoError(t, err)
	assert.True(t, expired)

	// Без сессии
	require.NoError(t, s.Clear())
	expired, err = s.TokenExpired()
	assert.Error(t, err)
	assert.True(t, expired)
}
