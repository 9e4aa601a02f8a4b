package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Коды ошибок realtime-подсистемы.
// Таксономия: transport / payload / rest (см. README).
const (
	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeUnknownError  ErrorCode = "UNKNOWN_ERROR"

	// Transport: сокет или поток событий закрылся/не открылся
	CodeConnectFailed ErrorCode = "CONNECT_FAILED"
	CodeSocketClosed  ErrorCode = "SOCKET_CLOSED"
	CodeSendDropped   ErrorCode = "SEND_DROPPED"
	CodeStreamClosed  ErrorCode = "STREAM_CLOSED"

	// Payload: кадр пришел, но его нельзя использовать
	CodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	CodeMissingField     ErrorCode = "MISSING_FIELD"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// REST: запросы к API
	CodeRequestFailed    ErrorCode = "REQUEST_FAILED"
	CodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	// Аутентификация (сквозные)
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
)
