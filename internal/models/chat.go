package models

// ChatMessage - входящее сообщение чата. Неизменяемо после создания;
// принадлежит диалогу (пара sender+recipient).
type ChatMessage struct {
	ID          string `json:"id" validate:"required"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
	Time        string `json:"time"` // назначается сервером
	JobID       string `json:"job_id,omitempty"`
}

// OutgoingChatMessage - исходящий кадр чата.
type OutgoingChatMessage struct {
	Text  string `json:"text"`
	JobID string `json:"job_id,omitempty"`
}

// Recipient - собеседник из списка диалогов.
// Поля в camelCase - так их отдает /chat/chat/recipients.
type Recipient struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar"`
	LastMessage     string `json:"lastMessage"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int    `json:"unreadCount"`
}
