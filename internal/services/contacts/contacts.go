// Package services содержит логику бизнес-уровня для работы с книгой контактов.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/contact-hub/internal/models"
)

// Значения постраничного вывода по умолчанию.
const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ContactRepository описывает контракт для работы с контактами в базе данных.
type ContactRepository interface {
	CreateContact(ctx context.Context, contact models.Contact) (int, error)
	ReadContact(ctx context.Context, id int, ownerUID string) (*models.Contact, error)
	UpdateContact(ctx context.Context, contact models.Contact, id int, ownerUID string) (int, error)
	RemoveContact(ctx context.Context, id int, ownerUID string) (int, error)
	ListContacts(ctx context.Context, ownerUID string, filter models.ContactFilter) ([]*models.Contact, error)
}

// ContactService отвечает за операции над контактами пользователя.
type ContactService struct {
	contacts ContactRepository
	log      *slog.Logger
}

// NewContactService создает новый экземпляр ContactService.
func NewContactService(contacts ContactRepository, log *slog.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		log:      log,
	}
}

// Create сохраняет новый контакт и возвращает его ID.
func (s *ContactService) Create(ctx context.Context, contact models.Contact) (int, error) {
	const op = "services.contacts.Create"
	id, err := s.contacts.CreateContact(ctx, contact)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Read возвращает контакт по ID в пределах записей владельца.
func (s *ContactService) Read(ctx context.Context, id int, ownerUID string) (*models.Contact, error) {
	return s.contacts.ReadContact(ctx, id, ownerUID)
}

// Update обновляет контакт и возвращает количество измененных строк.
func (s *ContactService) Update(ctx context.Context, contact models.Contact, id int, ownerUID string) (int, error) {
	return s.contacts.UpdateContact(ctx, contact, id, ownerUID)
}

// Remove удаляет контакт и возвращает количество удаленных строк.
func (s *ContactService) Remove(ctx context.Context, id int, ownerUID string) (int, error) {
	return s.contacts.RemoveContact(ctx, id, ownerUID)
}

// List возвращает страницу контактов владельца, нормализуя параметры выборки.
func (s *ContactService) List(ctx context.Context, ownerUID string, filter models.ContactFilter) ([]*models.Contact, error) {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return s.contacts.ListContacts(ctx, ownerUID, filter)
}
