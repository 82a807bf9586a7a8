// Package storage реализует хранилище данных на основе PostgreSQL
// для управления пользователями и контактами. Предоставляет подключение
// к базе и общие для репозиториев ошибки.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища, на которые опирается бизнес-логика.
var (
	// ErrNotFound — запрошенная запись отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken — нарушено ограничение уникальности email.
	ErrEmailTaken = errors.New("email already taken")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и контактами.
type Storage struct {
	DB *sql.DB
}

// New создает подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}
