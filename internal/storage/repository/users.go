// Package repository содержит SQL-репозитории поверх общего подключения storage.Storage.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/contact-hub/internal/models"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
)

// Код PostgreSQL для нарушения ограничения уникальности.
const uniqueViolation = "23505"

// Users реализует репозиторий пользователей.
type Users struct {
	*storage.Storage
}

// NewUsers создает репозиторий пользователей поверх подключения к базе.
func NewUsers(s *storage.Storage) *Users {
	return &Users{Storage: s}
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
//
// Уникальность email обеспечивается ограничением в базе: при конфликте
// возвращается storage.ErrEmailTaken независимо от исхода предварительных проверок.
func (r *Users) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "repository.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, subscription, avatar_url, verification_token)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := r.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Subscription, user.AvatarURL,
		user.VerificationToken).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (r *Users) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, subscription, avatar_url,
			      verification_token, created_at
			  FROM users
			  WHERE email = $1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email), op)
}

// GetUserByUID возвращает пользователя по его UID.
func (r *Users) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "repository.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, subscription, avatar_url,
			      verification_token, created_at
			  FROM users
			  WHERE uid = $1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, userUID), op)
}

// ConsumeVerificationToken атомарно гасит токен подтверждения почты
// и возвращает UID пользователя, которому он принадлежал.
//
// Одиночный UPDATE гарантирует ровно одного победителя при конкурентных
// вызовах с тем же токеном: проигравшие получают storage.ErrNotFound.
func (r *Users) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	const op = "repository.ConsumeVerificationToken"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET verification_token = NULL
			  WHERE verification_token = $1
			  RETURNING uid`
	var userUID string
	if err := r.DB.QueryRowContext(ctx, query, token).Scan(&userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}

// UpdateSubscription обновляет уровень подписки пользователя.
func (r *Users) UpdateSubscription(ctx context.Context, userUID, subscription string) error {
	const op = "repository.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription = $1
			  WHERE uid = $2`
	result, err := r.DB.ExecContext(ctx, query, subscription, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// UpdateAvatarURL обновляет ссылку на аватар пользователя.
func (r *Users) UpdateAvatarURL(ctx context.Context, userUID, avatarURL string) error {
	const op = "repository.UpdateAvatarURL"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET avatar_url = $1
			  WHERE uid = $2`
	result, err := r.DB.ExecContext(ctx, query, avatarURL, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

func (r *Users) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}

	var avatarURL, verificationToken sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.Subscription,
		&avatarURL, &verificationToken, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	if verificationToken.Valid {
		u.VerificationToken = &verificationToken.String
	}
	if createdAt.Valid {
		u.CreatedAt = &createdAt.Time
	}
	return u, nil
}
