package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, email, display_name, currency, photo_ref, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.Email, &p.DisplayName, &p.Currency, &p.PhotoRef, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Upsert writes the whole profile, creating it on first save.
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, email, display_name, currency, photo_ref, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    currency = EXCLUDED.currency,
		    photo_ref = EXCLUDED.photo_ref,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Email, p.DisplayName, p.Currency, p.PhotoRef, p.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM profiles WHERE user_id = $1`, userID)
}
