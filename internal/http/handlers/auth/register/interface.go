package register

import (
	"context"

	"github.com/magabrotheeeer/contact-hub/internal/models"
)

type Service interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
}
