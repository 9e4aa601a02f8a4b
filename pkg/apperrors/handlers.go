package apperrors

import (
	"github.com/gin-gonic/gin"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
)

// ErrorResponse - стандартный ответ об ошибке (dev server)
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleGinError - обработчик ошибок для Gin-хендлеров dev-сервера
func HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if appErr.HTTPCode == 0 {
		// transport/payload коды не несут HTTP-статуса
		appErr.HTTPCode = 500
	}

	if appErr.HTTPCode >= 500 {
		logger.WithError(appErr).Error("server error")
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}
