package models

// NotificationType перечисляет типы уведомлений, которые шлет сервер.
type NotificationType string

const (
	NotificationTypeApplication NotificationType = "application"
	NotificationTypeMessage     NotificationType = "message"
	NotificationTypeAlert       NotificationType = "alert"
	NotificationTypeJob         NotificationType = "job"
	NotificationTypeInterview   NotificationType = "interview"

	// NotificationTypePing - keepalive-кадр, клиент его отбрасывает
	NotificationTypePing NotificationType = "ping"
)

// Notification - запись уведомления, как ее отдает REST и сокет.
// ID глобально уникален и служит единственным ключом merge/de-dup.
type Notification struct {
	ID          string           `json:"id" validate:"required"`
	Type        NotificationType `json:"type" validate:"required"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Time        string           `json:"time"` // ISO-8601, назначается сервером
	Read        bool             `json:"read"`
	Link        string           `json:"link,omitempty"`
}

// IsPing сообщает, является ли уведомление keepalive-кадром.
func (n Notification) IsPing() bool {
	return n.Type == NotificationTypePing
}
