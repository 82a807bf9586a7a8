package models

// VerificationEmail — сообщение для очереди писем подтверждения регистрации.
// Публикуется сервисом аутентификации и потребляется сервисом рассылки.
type VerificationEmail struct {
	Email string `json:"email"` // Адрес получателя
	Token string `json:"token"` // Токен подтверждения, встраивается в ссылку
}
