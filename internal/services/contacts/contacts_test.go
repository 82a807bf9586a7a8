package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contact-hub/internal/models"
)

type ContactRepositoryMock struct {
	mock.Mock
}

func (m *ContactRepositoryMock) CreateContact(ctx context.Context, contact models.Contact) (int, error) {
	args := m.Called(ctx, contact)
	return args.Int(0), args.Error(1)
}

func (m *ContactRepositoryMock) ReadContact(ctx context.Context, id int, ownerUID string) (*models.Contact, error) {
	args := m.Called(ctx, id, ownerUID)
	contact, _ := args.Get(0).(*models.Contact)
	return contact, args.Error(1)
}

func (m *ContactRepositoryMock) UpdateContact(ctx context.Context, contact models.Contact, id int, ownerUID string) (int, error) {
	args := m.Called(ctx, contact, id, ownerUID)
	return args.Int(0), args.Error(1)
}

func (m *ContactRepositoryMock) RemoveContact(ctx context.Context, id int, ownerUID string) (int, error) {
	args := m.Called(ctx, id, ownerUID)
	return args.Int(0), args.Error(1)
}

func (m *ContactRepositoryMock) ListContacts(ctx context.Context, ownerUID string, filter models.ContactFilter) ([]*models.Contact, error) {
	args := m.Called(ctx, ownerUID, filter)
	list, _ := args.Get(0).([]*models.Contact)
	return list, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestContactService_List_NormalizesFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     models.ContactFilter
		wantFilter models.ContactFilter
	}{
		{
			name:       "defaults applied",
			filter:     models.ContactFilter{},
			wantFilter: models.ContactFilter{Page: 1, Limit: 20},
		},
		{
			name:       "limit capped",
			filter:     models.ContactFilter{Page: 2, Limit: 500},
			wantFilter: models.ContactFilter{Page: 2, Limit: 100},
		},
		{
			name:       "subscription filter preserved",
			filter:     models.ContactFilter{Page: 1, Limit: 10, Subscription: "pro"},
			wantFilter: models.ContactFilter{Page: 1, Limit: 10, Subscription: "pro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ContactRepositoryMock)
			svc := NewContactService(repo, newNoopLogger())

			repo.On("ListContacts", mock.Anything, "uid-1", tt.wantFilter).
				Return([]*models.Contact{}, nil).Once()

			_, err := svc.List(context.Background(), "uid-1", tt.filter)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestContactService_Create(t *testing.T) {
	repo := new(ContactRepositoryMock)
	svc := NewContactService(repo, newNoopLogger())

	contact := models.Contact{Name: "John", Email: "john@example.com", Phone: "+1", OwnerUID: "uid-1"}
	repo.On("CreateContact", mock.Anything, contact).Return(42, nil).Once()

	id, err := svc.Create(context.Background(), contact)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}
