package devserver

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sujnankumar/job-portal-frontend-sub001/pkg/apperrors"
)

// Claims - JWT-claims dev-сервера. Подпись HS256, как у боевого API.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// MintToken выписывает токен сессии для пользователя.
func (s *Server) MintToken(userID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// parseToken проверяет подпись и срок токена, возвращает user id.
func (s *Server) parseToken(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.NewUnauthorizedError("invalid token")
	}
	return claims.UserID, nil
}

// userFromQueryToken авторизует запрос по query-параметру token
// (эндпоинты уведомлений и оба WebSocket).
func (s *Server) userFromQueryToken(c *gin.Context) (string, bool) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		apperrors.HandleGinError(c, apperrors.NewUnauthorizedError("token query parameter required"))
		return "", false
	}
	userID, err := s.parseToken(tokenStr)
	if err != nil {
		apperrors.HandleGinError(c, err)
		return "", false
	}
	return userID, true
}

// userFromBearer авторизует запрос по заголовку Authorization
// (эндпоинты чата).
func (s *Server) userFromBearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		apperrors.HandleGinError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
		return "", false
	}
	userID, err := s.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		apperrors.HandleGinError(c, err)
		return "", false
	}
	return userID, true
}
