package models

// User - авторизованный пользователь, как его хранит auth store.
// Токен выдается внешним API; логика аутентификации вне зоны этой подсистемы.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"` // "job_seeker" | "employer"
	Avatar string `json:"avatar,omitempty"`
	Token  string `json:"token"`
}

// AuthState - персистентное состояние под фиксированным storage-ключом.
type AuthState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}
