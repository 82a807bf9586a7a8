package current

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contact-hub/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCurrentHandler_ServeHTTP(t *testing.T) {
	avatarURL := "https://cdn.contacthub.dev/avatars/user1.png"
	user := &models.User{
		UID:          "uid-1",
		Email:        "user1@example.com",
		PasswordHash: "$2a$10$secret",
		Subscription: models.SubscriptionPro,
		AvatarURL:    &avatarURL,
	}

	handler := New(newNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.UserKey, user)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user1@example.com", resp["email"])
	assert.Equal(t, models.SubscriptionPro, resp["subscription"])
	assert.Equal(t, avatarURL, resp["avatarURL"])
	// Хэш пароля наружу не отдается.
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestCurrentHandler_MissingContext(t *testing.T) {
	handler := New(newNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
