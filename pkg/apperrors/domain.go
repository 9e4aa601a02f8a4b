package apperrors

import (
	"net/http"
)

/*
Фабрики для частых ошибок realtime-подсистемы.
Транспортные и payload-ошибки не имеют осмысленного HTTP-кода,
для них используется 0.
*/

// --- Transport ---

// ErrConnectFailed - не удалось открыть сокет или поток
func ErrConnectFailed(err error, domain string) *AppError {
	return Wrap(err, CodeConnectFailed, domain, "Failed to establish connection", 0)
}

// ErrSocketClosed - соединение закрылось (чистое закрытие и ошибка неразличимы)
func ErrSocketClosed(err error, domain string) *AppError {
	return Wrap(err, CodeSocketClosed, domain, "Connection closed", 0)
}

// ErrSendDropped - попытка отправки при закрытом/не открытом соединении
func ErrSendDropped(domain string) *AppError {
	return New(CodeSendDropped, domain, "Send attempted while not connected", 0)
}

// --- Payload ---

// ErrMalformedPayload - кадр не распарсился как JSON
func ErrMalformedPayload(err error, domain string) *AppError {
	return Wrap(err, CodeMalformedPayload, domain, "Malformed payload discarded", 0)
}

// ErrMissingField - обязательное поле отсутствует (например id уведомления)
func ErrMissingField(domain, field string) *AppError {
	return New(CodeMissingField, domain, "Required field missing: "+field, 0)
}

// ValidationError создает ошибку валидации с деталями
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(details)
}

// --- REST ---

// ErrRequestFailed - запрос не дошел до сервера
func ErrRequestFailed(err error, path string) *AppError {
	return Wrap(err, CodeRequestFailed, "rest", "Request failed: "+path, 0)
}

// ErrUnexpectedStatus - сервер ответил не тем статусом
func ErrUnexpectedStatus(path string, status int) *AppError {
	return New(CodeUnexpectedStatus, "rest", "Unexpected status for "+path, status)
}

// ErrNotFound - 404 от API
func ErrNotFound(path string) *AppError {
	return New(CodeNotFound, "rest", "Resource not found: "+path, http.StatusNotFound)
}

// --- Auth ---

// NewUnauthorizedError создает ошибку авторизации
func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

// NewForbiddenError создает ошибку доступа
func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, "auth", message, http.StatusForbidden)
}

// ErrTokenExpired - токен сессии истек
var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Session token has expired",
	http.StatusUnauthorized,
)

// InternalError оборачивает неизвестную системную ошибку
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal error", http.StatusInternalServerError)
}
