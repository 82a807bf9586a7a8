package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/contact-hub/internal/models"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
)

// Contacts реализует репозиторий контактов.
type Contacts struct {
	*storage.Storage
}

// NewContacts создает репозиторий контактов поверх подключения к базе.
func NewContacts(s *storage.Storage) *Contacts {
	return &Contacts{Storage: s}
}

// CreateContact вставляет новую запись контакта и возвращает ее ID.
func (r *Contacts) CreateContact(ctx context.Context, contact models.Contact) (int, error) {
	const op = "repository.CreateContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contacts (name, email, phone, subscription, owner_uid)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := r.DB.QueryRowContext(ctx, query,
		contact.Name, contact.Email, contact.Phone, contact.Subscription,
		contact.OwnerUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadContact возвращает контакт по его ID в пределах записей владельца.
func (r *Contacts) ReadContact(ctx context.Context, id int, ownerUID string) (*models.Contact, error) {
	const op = "repository.ReadContact"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, subscription, owner_uid
			  FROM contacts
			  WHERE id = $1 AND owner_uid = $2`
	row := r.DB.QueryRowContext(ctx, query, id, ownerUID)

	var result models.Contact
	if err := row.Scan(&result.ID, &result.Name, &result.Email, &result.Phone,
		&result.Subscription, &result.OwnerUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateContact обновляет контакт по ID и возвращает количество измененных строк.
func (r *Contacts) UpdateContact(ctx context.Context, contact models.Contact, id int, ownerUID string) (int, error) {
	const op = "repository.UpdateContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE contacts
			  SET name = $1, email = $2, phone = $3, subscription = $4
			  WHERE id = $5 AND owner_uid = $6`
	result, err := r.DB.ExecContext(ctx, query,
		contact.Name, contact.Email, contact.Phone, contact.Subscription, id, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveContact удаляет контакт по ID и возвращает количество удаленных строк.
func (r *Contacts) RemoveContact(ctx context.Context, id int, ownerUID string) (int, error) {
	const op = "repository.RemoveContact"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM contacts WHERE id = $1 AND owner_uid = $2`
	result, err := r.DB.ExecContext(ctx, query, id, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListContacts возвращает страницу контактов владельца.
//
// При непустом фильтре по подписке выборка дополнительно сужается по метке.
func (r *Contacts) ListContacts(ctx context.Context, ownerUID string, filter models.ContactFilter) ([]*models.Contact, error) {
	const op = "repository.ListContacts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `SELECT id, name, email, phone, subscription, owner_uid
			  FROM contacts
			  WHERE owner_uid = $1 AND ($2 = '' OR subscription = $2)
			  ORDER BY id
			  LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, ownerUID, filter.Subscription, filter.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Contact
	for rows.Next() {
		var c models.Contact
		if err = rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone,
			&c.Subscription, &c.OwnerUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
