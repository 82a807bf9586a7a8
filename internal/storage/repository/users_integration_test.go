package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contact-hub/internal/models"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
)

func TestUsers_CreateUser_DuplicateEmail(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	token := uuid.NewString()
	user := models.User{
		Email:             "alice@example.com",
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	}

	uid, err := users.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	anotherToken := uuid.NewString()
	user.VerificationToken = &anotherToken
	_, err = users.CreateUser(ctx, user)
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	var count int
	err = store.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, "alice@example.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsers_CreateUser_ConcurrentDuplicates(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := uuid.NewString()
			_, errs[i] = users.CreateUser(ctx, models.User{
				Email:             "race@example.com",
				PasswordHash:      "hashedpassword",
				Subscription:      models.SubscriptionFree,
				VerificationToken: &token,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, storage.ErrEmailTaken)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent registration must win")
}

func TestUsers_GetUserByEmail(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	token := uuid.NewString()
	uid, err := users.CreateUser(ctx, models.User{
		Email:             "bob@example.com",
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	})
	require.NoError(t, err)

	got, err := users.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "bob@example.com", got.Email)
	assert.Equal(t, models.SubscriptionFree, got.Subscription)
	require.NotNil(t, got.VerificationToken)
	assert.Equal(t, token, *got.VerificationToken)

	_, err = users.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUsers_ConsumeVerificationToken(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	token := uuid.NewString()
	uid, err := users.CreateUser(ctx, models.User{
		Email:             "carol@example.com",
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	})
	require.NoError(t, err)

	gotUID, err := users.ConsumeVerificationToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uid, gotUID)

	// Второй запрос с тем же токеном должен проиграть
	_, err = users.ConsumeVerificationToken(ctx, token)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := users.GetUserByUID(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, got.VerificationToken)
}

func TestUsers_ConsumeVerificationToken_Concurrent(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	token := uuid.NewString()
	_, err := users.CreateUser(ctx, models.User{
		Email:             "dave@example.com",
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	})
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = users.ConsumeVerificationToken(ctx, token)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one consume must win")
}

func TestUsers_UpdateSubscription(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	token := uuid.NewString()
	uid, err := users.CreateUser(ctx, models.User{
		Email:             "erin@example.com",
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	})
	require.NoError(t, err)

	require.NoError(t, users.UpdateSubscription(ctx, uid, models.SubscriptionPro))

	got, err := users.GetUserByUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPro, got.Subscription)

	err = users.UpdateSubscription(ctx, uuid.NewString(), models.SubscriptionPro)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUsers_UpdateAvatarURL(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	ctx := context.Background()

	token := uuid.NewString()
	uid, err := users.CreateUser(ctx, models.User{
		Email:             "frank@example.com",
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	})
	require.NoError(t, err)

	url := "http://localhost:9000/avatars/" + uid + ".png"
	require.NoError(t, users.UpdateAvatarURL(ctx, uid, url))

	got, err := users.GetUserByUID(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, url, *got.AvatarURL)
}
