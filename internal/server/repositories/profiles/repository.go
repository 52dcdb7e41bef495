package profiles

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, userID string) error
}
