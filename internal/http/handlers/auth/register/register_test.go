package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contact-hub/internal/models"
	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	avatarURL := "https://cdn.contacthub.dev/avatars/user1.png"

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantBodyPart   string
	}{
		{
			name:        "valid registration",
			requestBody: Request{Email: "user1@example.com", Password: "password123"},
			mockUser: &models.User{
				UID:          "uid-1",
				Email:        "user1@example.com",
				Subscription: models.SubscriptionFree,
				AvatarURL:    &avatarURL,
			},
			wantStatusCode: http.StatusCreated,
			wantBodyPart:   avatarURL,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user1@example.com"},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "field Password is a required field",
		},
		{
			name:           "validation error - malformed email",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "field Email must be a valid email address",
		},
		{
			name:           "email already taken",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        services.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantBodyPart:   "email in use",
		},
		{
			name:           "service error",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantBodyPart:   "failed to register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				authMock.On("Register", mock.Anything, req.Email, req.Password).
					Return(tt.mockUser, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), authMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBodyPart)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_ResponseShape(t *testing.T) {
	authMock := new(AuthServiceMock)
	authMock.On("Register", mock.Anything, "user1@example.com", "password123").
		Return(&models.User{
			UID:          "uid-1",
			Email:        "user1@example.com",
			Subscription: models.SubscriptionFree,
		}, nil).Once()

	handler := New(newNoopLogger(), authMock)

	body, _ := json.Marshal(Request{Email: "user1@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User struct {
			Email        string  `json:"email"`
			AvatarURL    *string `json:"avatarURL"`
			Subscription string  `json:"subscription"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user1@example.com", resp.User.Email)
	assert.Equal(t, models.SubscriptionFree, resp.User.Subscription)
	// Аватар не обязателен: при сбое генерации поле остается null.
	assert.Nil(t, resp.User.AvatarURL)
}
