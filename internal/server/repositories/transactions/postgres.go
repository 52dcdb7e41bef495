// Package transactions stores expenses and incomes in one table told apart by kind.
package transactions

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

const selectColumns = `SELECT id, user_id, kind, category, amount, name, description, occurred_at, receipt_ref, updated_at FROM transactions`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := s.Scan(&t.ID, &t.UserID, &t.Kind, &t.Category, &t.Amount, &t.Name,
		&t.Description, &t.OccurredAt, &t.ReceiptRef, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, kind, category, amount, name, description, occurred_at, receipt_ref, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Kind, t.Category, t.Amount,
		t.Name, t.Description, t.OccurredAt, t.ReceiptRef, t.UpdatedAt)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Update matches on id, owner and kind; an expense id never updates an income.
func (r *PostgresRepository) Update(ctx context.Context, t *models.Transaction) error {
	query := `
		UPDATE transactions
		SET category = $4, amount = $5, name = $6, description = $7, occurred_at = $8, receipt_ref = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2 AND kind = $3
	`
	return dbx.ExecOne(ctx, r.db, query, t.ID, t.UserID, t.Kind, t.Category, t.Amount,
		t.Name, t.Description, t.OccurredAt, t.ReceiptRef, t.UpdatedAt)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, kind, id string) error {
	return dbx.ExecOne(ctx, r.db,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2 AND kind = $3`, id, userID, kind)
}

// List returns kind rows dated inside [f.Start, f.End], newest first.
func (r *PostgresRepository) List(ctx context.Context, kind string, f models.ListFilter) ([]models.Transaction, error) {
	query := selectColumns + ` WHERE user_id = $1 AND kind = $2 AND occurred_at BETWEEN $3 AND $4`
	args := []any{f.UserID, kind, f.Start, f.End}
	if f.Category != "" {
		query += ` AND LOWER(category) = LOWER($5)`
		args = append(args, f.Category)
	}
	query += ` ORDER BY occurred_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
