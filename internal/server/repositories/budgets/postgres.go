// Package budgets stores monthly category budgets per user.
package budgets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `SELECT id, user_id, category, amount, remaining_amount, period_start, updated_at FROM budgets`

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*models.Budget, error) {
	b := &models.Budget{}
	if err := s.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.RemainingAmount, &b.PeriodStart, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts b. An id already in use is common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, b *models.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category, amount, remaining_amount, period_start, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Category, b.Amount, b.RemainingAmount, b.PeriodStart, b.UpdatedAt)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Update overwrites the mutable fields of b, matching on id and owner.
func (r *PostgresRepository) Update(ctx context.Context, b *models.Budget) error {
	query := `
		UPDATE budgets
		SET category = $3, amount = $4, remaining_amount = $5, period_start = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`
	return dbx.ExecOne(ctx, r.db, query,
		b.ID, b.UserID, b.Category, b.Amount, b.RemainingAmount, b.PeriodStart, b.UpdatedAt)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
}

// List returns budgets whose period starts inside [f.Start, f.End], oldest first.
func (r *PostgresRepository) List(ctx context.Context, f models.ListFilter) ([]models.Budget, error) {
	query := selectColumns + ` WHERE user_id = $1 AND period_start BETWEEN $2 AND $3`
	args := []any{f.UserID, f.Start, f.End}
	if f.Category != "" {
		query += ` AND LOWER(category) = LOWER($4)`
		args = append(args, f.Category)
	}
	query += ` ORDER BY period_start, category`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
