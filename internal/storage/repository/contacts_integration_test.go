package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contact-hub/internal/models"
	"github.com/magabrotheeeer/contact-hub/internal/storage"
)

func createTestUser(t *testing.T, users *Users, email string) string {
	token := uuid.NewString()
	uid, err := users.CreateUser(context.Background(), models.User{
		Email:             email,
		PasswordHash:      "hashedpassword",
		Subscription:      models.SubscriptionFree,
		VerificationToken: &token,
	})
	require.NoError(t, err)
	return uid
}

func TestContacts_CreateAndRead(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	contacts := NewContacts(store)
	ctx := context.Background()

	ownerUID := createTestUser(t, users, "owner@example.com")

	id, err := contacts.CreateContact(ctx, models.Contact{
		Name:         "John Doe",
		Email:        "john@example.com",
		Phone:        "+1234567890",
		Subscription: "pro",
		OwnerUID:     ownerUID,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := contacts.ReadContact(ctx, id, ownerUID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
	assert.Equal(t, "+1234567890", got.Phone)

	// Чужой владелец не видит запись
	otherUID := createTestUser(t, users, "other@example.com")
	_, err = contacts.ReadContact(ctx, id, otherUID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestContacts_UpdateAndRemove(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	contacts := NewContacts(store)
	ctx := context.Background()

	ownerUID := createTestUser(t, users, "owner@example.com")

	id, err := contacts.CreateContact(ctx, models.Contact{
		Name:     "John Doe",
		Email:    "john@example.com",
		Phone:    "+1234567890",
		OwnerUID: ownerUID,
	})
	require.NoError(t, err)

	updated, err := contacts.UpdateContact(ctx, models.Contact{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "+0987654321",
		Subscription: "premium",
	}, id, ownerUID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := contacts.ReadContact(ctx, id, ownerUID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)

	removed, err := contacts.RemoveContact(ctx, id, ownerUID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = contacts.RemoveContact(ctx, id, ownerUID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestContacts_ListWithPaginationAndFilter(t *testing.T) {
	store, cleanup := setupTestDatabase(t)
	defer cleanup()

	users := NewUsers(store)
	contacts := NewContacts(store)
	ctx := context.Background()

	ownerUID := createTestUser(t, users, "owner@example.com")

	for i, sub := range []string{"free", "pro", "free", "premium", "free"} {
		_, err := contacts.CreateContact(ctx, models.Contact{
			Name:         "Contact",
			Email:        "contact@example.com",
			Phone:        "+100000000" + string(rune('0'+i)),
			Subscription: sub,
			OwnerUID:     ownerUID,
		})
		require.NoError(t, err)
	}

	page, err := contacts.ListContacts(ctx, ownerUID, models.ContactFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page2, err := contacts.ListContacts(ctx, ownerUID, models.ContactFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	free, err := contacts.ListContacts(ctx, ownerUID, models.ContactFilter{Page: 1, Limit: 10, Subscription: "free"})
	require.NoError(t, err)
	assert.Len(t, free, 3)
}
