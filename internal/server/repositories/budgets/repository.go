package budgets

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, f models.ListFilter) ([]models.Budget, error)
}
