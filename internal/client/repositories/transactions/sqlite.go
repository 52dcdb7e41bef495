// Package transactions is the local SQLite store for expenses and incomes.
// Both live in one table; a repository instance is bound to one kind.
package transactions

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

const columns = `id, user_id, kind, category, amount, name, description, occurred_at, receipt_ref, synced, updated_at`

type SQLiteRepository struct {
	db      dbx.DBTX
	kind    models.Kind
	changes *changes.Broker
}

// NewSQLiteRepository panics if kind is not an expense or income kind.
func NewSQLiteRepository(db dbx.DBTX, kind models.Kind, broker *changes.Broker) *SQLiteRepository {
	if !models.IsTransactionKind(kind) {
		panic(fmt.Sprintf("transactions: invalid kind %q", kind))
	}
	return &SQLiteRepository{db: db, kind: kind, changes: broker}
}

func (r *SQLiteRepository) Kind() models.Kind { return r.kind }

func (r *SQLiteRepository) notify(userID string) {
	r.changes.Publish(changes.Event{Kind: r.kind, UserID: userID})
}

func scan(row interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	var kind string
	var occurredAt, updatedAt int64
	err := row.Scan(&t.ID, &t.UserID, &kind, &t.Category, &t.Amount, &t.Name, &t.Description,
		&occurredAt, &t.ReceiptRef, &t.Synced, &updatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	t.Kind = models.Kind(kind)
	t.OccurredAt = dbx.FromMillis(occurredAt)
	t.UpdatedAt = dbx.FromMillis(updatedAt)
	return t, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID, id string) (models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM transactions
		WHERE user_id = ? AND kind = ? AND id = ? AND deleted = 0`, userID, r.kind, id)
	t, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, common.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to get %s %s: %w", r.kind, id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", r.kind, err)
	}
	defer rows.Close()

	result := []models.Transaction{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.kind, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListByPeriod(ctx context.Context, userID string, p models.Period) ([]models.Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions
		WHERE user_id = ? AND kind = ? AND deleted = 0 AND occurred_at BETWEEN ? AND ?
		ORDER BY occurred_at DESC, id`,
		userID, r.kind, dbx.Millis(p.Start), dbx.Millis(p.End))
}

func (r *SQLiteRepository) ListByCategory(ctx context.Context, userID, category string, p models.Period) ([]models.Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions
		WHERE user_id = ? AND kind = ? AND category = ? AND deleted = 0 AND occurred_at BETWEEN ? AND ?
		ORDER BY occurred_at DESC, id`,
		userID, r.kind, category, dbx.Millis(p.Start), dbx.Millis(p.End))
}

func (r *SQLiteRepository) upsert(ctx context.Context, t models.Transaction, synced bool) error {
	if t.Kind != r.kind {
		return fmt.Errorf("%s repository cannot store a %s", r.kind, t.Kind)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, kind, category, amount, name, description, occurred_at, receipt_ref, synced, deleted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			amount = excluded.amount,
			name = excluded.name,
			description = excluded.description,
			occurred_at = excluded.occurred_at,
			receipt_ref = excluded.receipt_ref,
			synced = excluded.synced,
			deleted = 0,
			updated_at = excluded.updated_at
		WHERE transactions.user_id = excluded.user_id AND transactions.kind = excluded.kind`,
		t.ID, t.UserID, r.kind, t.Category, t.Amount, t.Name, t.Description,
		dbx.Millis(t.OccurredAt), t.ReceiptRef, synced, dbx.Millis(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", r.kind, err)
	}
	if err := dbx.ExpectOne(res); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// the id is used by another user or by the other kind
			return fmt.Errorf("%s id %s is taken: %w", r.kind, t.ID, common.ErrAlreadyExists)
		}
		return err
	}
	r.notify(t.UserID)
	return nil
}

func (r *SQLiteRepository) Add(ctx context.Context, t models.Transaction) error {
	return r.upsert(ctx, t, false)
}

func (r *SQLiteRepository) Backfill(ctx context.Context, t models.Transaction) error {
	return r.upsert(ctx, t, true)
}

func (r *SQLiteRepository) Update(ctx context.Context, t models.Transaction) error {
	err := dbx.ExecOne(ctx, r.db, `
		UPDATE transactions SET category = ?, amount = ?, name = ?, description = ?, occurred_at = ?,
			receipt_ref = ?, synced = 0, updated_at = ?
		WHERE user_id = ? AND kind = ? AND id = ? AND deleted = 0`,
		t.Category, t.Amount, t.Name, t.Description, dbx.Millis(t.OccurredAt), t.ReceiptRef,
		dbx.Millis(t.UpdatedAt), t.UserID, r.kind, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", r.kind, t.ID, err)
	}
	r.notify(t.UserID)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	err := dbx.ExecOne(ctx, r.db, `UPDATE transactions SET deleted = 1, synced = 0
		WHERE user_id = ? AND kind = ? AND id = ? AND deleted = 0`, userID, r.kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.kind, id, err)
	}
	r.notify(userID)
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, userID, id string, synced bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET synced = ? WHERE user_id = ? AND kind = ? AND id = ?`,
		synced, userID, r.kind, id)
	if err != nil {
		return fmt.Errorf("failed to mark %s %s synced: %w", r.kind, id, err)
	}
	return nil
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = ? AND kind = ? AND synced = 0`,
		userID, r.kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced %s: %w", r.kind, err)
	}
	return n, nil
}
