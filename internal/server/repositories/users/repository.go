package users

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	CreateFederated(ctx context.Context, username, subject string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error)
}
