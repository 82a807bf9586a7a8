package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contact-hub/internal/http/middlewarectx"
	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ChangeSubscription(ctx context.Context, userUID, subscription string) error {
	return m.Called(ctx, userUID, subscription).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubscriptionHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		requestBody    interface{}
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantBodyPart   string
	}{
		{
			name:           "valid change",
			userUID:        "uid-1",
			requestBody:    Request{Subscription: "pro"},
			expectCall:     true,
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "unknown tier rejected",
			userUID:        "uid-1",
			requestBody:    Request{Subscription: "gold"},
			mockErr:        services.ErrInvalidSubscription,
			expectCall:     true,
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "only free, pro, premium",
		},
		{
			name:           "empty tier rejected by validation",
			userUID:        "uid-1",
			requestBody:    Request{},
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "field Subscription is a required field",
		},
		{
			name:           "invalid json body",
			userUID:        "uid-1",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantBodyPart:   "invalid request body",
		},
		{
			name:           "user vanished",
			userUID:        "uid-ghost",
			requestBody:    Request{Subscription: "premium"},
			mockErr:        services.ErrUserNotFound,
			expectCall:     true,
			wantStatusCode: http.StatusNotFound,
			wantBodyPart:   "user not found",
		},
		{
			name:           "missing user context",
			userUID:        "",
			requestBody:    Request{Subscription: "pro"},
			wantStatusCode: http.StatusUnauthorized,
			wantBodyPart:   "not authorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.expectCall {
				req := tt.requestBody.(Request)
				authMock.On("ChangeSubscription", mock.Anything, tt.userUID, req.Subscription).
					Return(tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/subscription", bytes.NewReader(bodyBytes))
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantBodyPart != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBodyPart)
			}
			authMock.AssertExpectations(t)
		})
	}
}
