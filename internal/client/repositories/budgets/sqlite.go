// Package budgets is the local SQLite store for budgets.
package budgets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
)

const columns = `id, user_id, category, amount, remaining_amount, period_start, synced, updated_at`

type SQLiteRepository struct {
	db      dbx.DBTX
	changes *changes.Broker
}

func NewSQLiteRepository(db dbx.DBTX, broker *changes.Broker) *SQLiteRepository {
	return &SQLiteRepository{db: db, changes: broker}
}

func (r *SQLiteRepository) notify(userID string) {
	r.changes.Publish(changes.Event{Kind: models.KindBudget, UserID: userID})
}

func scan(row interface{ Scan(...any) error }) (models.Budget, error) {
	var b models.Budget
	var periodStart, updatedAt int64
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.RemainingAmount, &periodStart, &b.Synced, &updatedAt)
	if err != nil {
		return models.Budget{}, err
	}
	b.PeriodStart = dbx.FromMillis(periodStart)
	b.UpdatedAt = dbx.FromMillis(updatedAt)
	return b, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID, id string) (models.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM budgets WHERE user_id = ? AND id = ? AND deleted = 0`, userID, id)
	b, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Budget{}, common.ErrNotFound
	}
	if err != nil {
		return models.Budget{}, fmt.Errorf("failed to get budget %s: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select budgets: %w", err)
	}
	defer rows.Close()

	result := []models.Budget{}
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByPeriod returns budgets whose month starts inside p.
func (r *SQLiteRepository) ListByPeriod(ctx context.Context, userID string, p models.Period) ([]models.Budget, error) {
	return r.list(ctx, `SELECT `+columns+` FROM budgets
		WHERE user_id = ? AND deleted = 0 AND period_start BETWEEN ? AND ?
		ORDER BY period_start, category`,
		userID, dbx.Millis(p.Start), dbx.Millis(p.End))
}

func (r *SQLiteRepository) ListByCategory(ctx context.Context, userID, category string, p models.Period) ([]models.Budget, error) {
	return r.list(ctx, `SELECT `+columns+` FROM budgets
		WHERE user_id = ? AND category = ? AND deleted = 0 AND period_start BETWEEN ? AND ?
		ORDER BY period_start`,
		userID, category, dbx.Millis(p.Start), dbx.Millis(p.End))
}

// upsert fails with common.ErrAlreadyExists when the id belongs to another user.
func (r *SQLiteRepository) upsert(ctx context.Context, b models.Budget, synced bool) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount, remaining_amount, period_start, synced, deleted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			amount = excluded.amount,
			remaining_amount = excluded.remaining_amount,
			period_start = excluded.period_start,
			synced = excluded.synced,
			deleted = 0,
			updated_at = excluded.updated_at
		WHERE budgets.user_id = excluded.user_id`,
		b.ID, b.UserID, b.Category, b.Amount, b.RemainingAmount, dbx.Millis(b.PeriodStart), synced, dbx.Millis(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	if err := dbx.ExpectOne(res); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("budget id %s is taken: %w", b.ID, common.ErrAlreadyExists)
		}
		return err
	}
	r.notify(b.UserID)
	return nil
}

// Add stores b as a local, not yet synced change. An existing id is overwritten.
func (r *SQLiteRepository) Add(ctx context.Context, b models.Budget) error {
	return r.upsert(ctx, b, false)
}

// Backfill stores a copy received from the remote store.
func (r *SQLiteRepository) Backfill(ctx context.Context, b models.Budget) error {
	return r.upsert(ctx, b, true)
}

func (r *SQLiteRepository) Update(ctx context.Context, b models.Budget) error {
	err := dbx.ExecOne(ctx, r.db, `
		UPDATE budgets SET category = ?, amount = ?, remaining_amount = ?, period_start = ?, synced = 0, updated_at = ?
		WHERE user_id = ? AND id = ? AND deleted = 0`,
		b.Category, b.Amount, b.RemainingAmount, dbx.Millis(b.PeriodStart), dbx.Millis(b.UpdatedAt), b.UserID, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", b.ID, err)
	}
	r.notify(b.UserID)
	return nil
}

// Delete marks the budget deleted. A missing or already deleted budget is
// common.ErrNotFound.
func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	err := dbx.ExecOne(ctx, r.db,
		`UPDATE budgets SET deleted = 1, synced = 0 WHERE user_id = ? AND id = ? AND deleted = 0`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", id, err)
	}
	r.notify(userID)
	return nil
}

// MarkSynced flips the synced flag, including on deleted rows.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, userID, id string, synced bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE budgets SET synced = ? WHERE user_id = ? AND id = ?`, synced, userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark budget %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets WHERE user_id = ? AND synced = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced budgets: %w", err)
	}
	return n, nil
}
