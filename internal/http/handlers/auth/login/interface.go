package login

import (
	"context"

	"github.com/magabrotheeeer/contact-hub/internal/models"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}
