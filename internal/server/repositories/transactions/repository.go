package transactions

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, userID, kind, id string) error
	List(ctx context.Context, kind string, f models.ListFilter) ([]models.Transaction, error)
}
