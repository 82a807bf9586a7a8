package verify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/magabrotheeeer/contact-hub/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerifyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantBodyPart   string
	}{
		{
			name:           "valid token",
			token:          "tok-1",
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantBodyPart:   "User successfully verified",
		},
		{
			name:           "already consumed token",
			token:          "tok-used",
			mockErr:        services.ErrUserNotFound,
			expectCall:     true,
			wantStatusCode: http.StatusNotFound,
			wantBodyPart:   "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.expectCall {
				authMock.On("VerifyEmail", mock.Anything, tt.token).Return(tt.mockErr).Once()
			}

			router := chi.NewRouter()
			router.Get("/auth/verify/{token}", New(newNoopLogger(), authMock).ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, "/auth/verify/"+tt.token, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBodyPart)
			authMock.AssertExpectations(t)
		})
	}
}
