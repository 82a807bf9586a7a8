// Package models содержит доменные структуры, описывающие контакт,
// а также вспомогательные типы для приема данных из JSON-запросов.
package models

// Contact представляет запись в книге контактов пользователя.
type Contact struct {
	ID           int    `json:"id"`           // Идентификатор контакта
	Name         string `json:"name"`         // Имя контакта
	Email        string `json:"email"`        // Электронная почта контакта
	Phone        string `json:"phone"`        // Телефон контакта
	Subscription string `json:"subscription"` // Метка подписки контакта
	OwnerUID     string `json:"-"`            // UID пользователя, которому принадлежит контакт
}

// ContactFilter описывает параметры выборки списка контактов:
// постраничный вывод и необязательный фильтр по метке подписки.
type ContactFilter struct {
	Page         int
	Limit        int
	Subscription string
}
