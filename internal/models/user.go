// Package models содержит доменную модель пользователя системы,
// включающую учетные данные, подписку, аватар и токен подтверждения почты.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Уровни подписки пользователя. Хранятся только эти три значения.
const (
	SubscriptionFree    = "free"
	SubscriptionPro     = "pro"
	SubscriptionPremium = "premium"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID               string     // Уникальный идентификатор пользователя
	Email             string     // Электронная почта (уникальная)
	PasswordHash      string     // Хэш пароля пользователя, никогда не сам пароль
	Subscription      string     // Уровень подписки: free, pro или premium
	AvatarURL         *string    // Ссылка на аватар, заполняется после регистрации
	VerificationToken *string    // Одноразовый токен подтверждения почты, nil после подтверждения
	CreatedAt         *time.Time // Дата создания учетной записи
}

// ValidSubscription сообщает, входит ли значение в множество допустимых уровней подписки.
func ValidSubscription(s string) bool {
	switch s {
	case SubscriptionFree, SubscriptionPro, SubscriptionPremium:
		return true
	}
	return false
}
