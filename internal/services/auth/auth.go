// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/contact-hub/internal/lib/avatar"
	"github.com/magabrotheeeer/contact-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/contact-hub/internal/lib/password"
	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	"github.com/magabrotheeeer/contact-hub/internal/models"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
)

// Ошибки бизнес-уровня. Обработчики переводят их в HTTP-статусы.
var (
	// ErrEmailTaken — пользователь с таким email уже существует.
	ErrEmailTaken = errors.New("email in use")
	// ErrInvalidCredentials — неверная пара email/пароль. Одна ошибка на оба случая,
	// чтобы по ответу нельзя было понять, существует ли адрес.
	ErrInvalidCredentials = errors.New("email or password is wrong")
	// ErrNotAuthorized — токен сессии отклонен или пользователь не найден.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrUserNotFound — пользователь по идентификатору или токену не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidSubscription — значение подписки вне множества free/pro/premium.
	ErrInvalidSubscription = errors.New("only free, pro, premium")
)

// Размер генерируемого аватара в пикселях.
const avatarSize = 128

// Таймаут на вспомогательные вызовы (хранилище аватаров),
// чтобы медленный коллаборатор не блокировал регистрацию.
const auxCallTimeout = 5 * time.Second

// Время жизни записи пользователя в кэше.
const userCacheTTL = 5 * time.Minute

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или storage.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUID возвращает пользователя по UID или storage.ErrNotFound.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)

	// ConsumeVerificationToken атомарно гасит токен и возвращает UID владельца.
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)

	// UpdateSubscription обновляет уровень подписки пользователя.
	UpdateSubscription(ctx context.Context, userUID, subscription string) error

	// UpdateAvatarURL обновляет ссылку на аватар пользователя.
	UpdateAvatarURL(ctx context.Context, userUID, avatarURL string) error
}

// AvatarStore описывает хранилище файлов аватаров.
type AvatarStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// EmailPublisher публикует письмо подтверждения в очередь рассылки.
type EmailPublisher interface {
	PublishVerificationEmail(msg models.VerificationEmail) error
}

// UserCache кэширует записи пользователей между запросами.
type UserCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// AuthService отвечает за регистрацию, вход, проверку токенов сессии,
// подтверждение почты, смену подписки и обновление аватара.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	avatars   AvatarStore
	publisher EmailPublisher
	cache     UserCache
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, avatars AvatarStore,
	publisher EmailPublisher, cache UserCache, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		avatars:   avatars,
		publisher: publisher,
		cache:     cache,
		log:       log,
	}
}

// Register создает нового пользователя с хэшированием пароля, подпиской free,
// сгенерированным аватаром и токеном подтверждения почты.
//
// Проверка занятости email перед вставкой — оптимизация: гонки разрешает
// ограничение уникальности в базе. Письмо подтверждения уходит через очередь,
// его судьба не влияет на исход регистрации.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	avatarURL := s.provisionAvatar(ctx, email)
	verificationToken := uuid.NewString()

	user := models.User{
		Email:             email,
		PasswordHash:      hashed,
		Subscription:      models.SubscriptionFree, // дефолтная подписка при регистрации
		AvatarURL:         avatarURL,
		VerificationToken: &verificationToken,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	if err := s.publisher.PublishVerificationEmail(models.VerificationEmail{
		Email: email,
		Token: verificationToken,
	}); err != nil {
		// Регистрация уже состоялась, потеря письма не откатывает ее.
		s.log.Error("failed to publish verification email", sl.Err(err))
	}

	return &user, nil
}

// provisionAvatar генерирует аватар из локальной части email и загружает его
// в объектное хранилище. При сбое регистрация продолжается без аватара.
func (s *AuthService) provisionAvatar(ctx context.Context, email string) *string {
	seed := nameFromEmail(email)

	data, err := avatar.Generate(seed, avatarSize)
	if err != nil {
		s.log.Error("failed to generate avatar", sl.Err(err))
		return nil
	}

	uploadCtx, cancel := context.WithTimeout(ctx, auxCallTimeout)
	defer cancel()

	url, err := s.avatars.Upload(uploadCtx, seed+".png", data, "image/png")
	if err != nil {
		s.log.Error("failed to upload avatar", sl.Err(err))
		return nil
	}
	return &url
}

// Login проверяет пароль пользователя и выпускает токен сессии.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if !password.CompareHash(user.PasswordHash, rawPassword) {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Authenticate разбирает токен сессии и возвращает пользователя.
//
// Любая причина отказа (невалидный, просроченный, подмененный токен,
// удаленный пользователь) дает ErrNotAuthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthorized)
	}

	user, err := s.getUserCached(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotAuthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Logout подтверждает существование пользователя.
//
// Токены сессии не хранятся на сервере, поэтому выпуск не отзывается:
// выданный токен действует до естественного истечения срока.
func (s *AuthService) Logout(ctx context.Context, userUID string) error {
	const op = "services.auth.Logout"

	if _, err := s.users.GetUserByUID(ctx, userUID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotAuthorized)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChangeSubscription проверяет значение подписки и сохраняет его.
func (s *AuthService) ChangeSubscription(ctx context.Context, userUID, subscription string) error {
	const op = "services.auth.ChangeSubscription"

	if !models.ValidSubscription(subscription) {
		return fmt.Errorf("%s: %w", op, ErrInvalidSubscription)
	}

	if err := s.users.UpdateSubscription(ctx, userUID, subscription); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUser(ctx, userUID)
	return nil
}

// VerifyEmail гасит токен подтверждения почты.
//
// Повторное подтверждение тем же токеном дает ErrUserNotFound.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.auth.VerifyEmail"

	userUID, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUser(ctx, userUID)
	return nil
}

// UpdateAvatar сохраняет загруженное изображение по детерминированному
// для пользователя ключу и обновляет ссылку на аватар.
func (s *AuthService) UpdateAvatar(ctx context.Context, userUID string, imageData []byte, filename string) (string, error) {
	const op = "services.auth.UpdateAvatar"

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}

	uploadCtx, cancel := context.WithTimeout(ctx, auxCallTimeout)
	defer cancel()

	url, err := s.avatars.Upload(uploadCtx, userUID+ext, imageData, contentTypeByExt(ext))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.UpdateAvatarURL(ctx, userUID, url); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUser(ctx, userUID)
	return url, nil
}

func (s *AuthService) getUserCached(ctx context.Context, userUID string) (*models.User, error) {
	key := userCacheKey(userUID)

	var cached models.User
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Error("user cache read failed", sl.Err(err))
	}
	if hit {
		return &cached, nil
	}

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, user, userCacheTTL); err != nil {
		s.log.Error("user cache write failed", sl.Err(err))
	}
	return user, nil
}

func (s *AuthService) invalidateUser(ctx context.Context, userUID string) {
	if err := s.cache.Invalidate(ctx, userCacheKey(userUID)); err != nil {
		s.log.Error("user cache invalidation failed", sl.Err(err))
	}
}

func userCacheKey(userUID string) string {
	return "user:" + userUID
}

// nameFromEmail возвращает локальную часть адреса (до символа @).
func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

func contentTypeByExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
