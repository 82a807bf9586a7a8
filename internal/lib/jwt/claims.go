// Package jwt реализует выпуск и проверку JWT токенов сессии.
//
// CustomClaims расширяет стандартные claims JWT, добавляя идентификатор пользователя.
// Методы GenerateToken и ParseToken реализуют создание и валидацию токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и проверки токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен с идентификатором пользователя
	GenerateToken(userUID string) (string, error)
	// ParseToken проверяет токен и возвращает *CustomClaims
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создает новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
