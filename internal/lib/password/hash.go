// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает bcrypt-хеш пароля для безопасного хранения.
// CompareHash сравнивает сохраненный bcrypt-хеш с введенным паролем.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает пароль пользователя и возвращает его bcrypt-хэш.
//
// Используется для безопасного хранения паролей в базе данных.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt-хэш с введенным паролем.
//
// Возвращает true, если пароль соответствует хэшу. Некорректный хэш
// не приводит к ошибке, только к отрицательному результату.
func CompareHash(originalHash, externalPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)) == nil
}
