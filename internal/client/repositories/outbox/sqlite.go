// Package outbox stores remote mutations that could not be applied while
// offline. There is at most one pending operation per entity; later writes
// are folded into it with Coalesce.
package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Enqueue records op, merging it with an operation already queued for the
// same (kind, entity id).
func (r *SQLiteRepository) Enqueue(ctx context.Context, op models.OutboxOp) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var seq int64
		var prev string
		var sent bool
		err := tx.QueryRowContext(ctx, `SELECT seq, op, sent FROM outbox WHERE kind = ? AND entity_id = ?`,
			op.Kind, op.EntityID).Scan(&seq, &prev, &sent)

		if errors.Is(err, sql.ErrNoRows) {
			created := op.CreatedAt
			if created.IsZero() {
				created = time.Now()
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO outbox (kind, entity_id, user_id, op, payload, sent, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				op.Kind, op.EntityID, op.UserID, op.Op, op.Payload, op.Sent, dbx.Millis(created))
			if err != nil {
				return fmt.Errorf("failed to insert outbox op: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read outbox op: %w", err)
		}

		sent = sent || op.Sent
		merged, keep := Coalesce(models.Op(prev), op.Op, sent)
		if !keep {
			if _, err := tx.ExecContext(ctx, `DELETE FROM outbox WHERE seq = ?`, seq); err != nil {
				return fmt.Errorf("failed to drop outbox op: %w", err)
			}
			return nil
		}

		payload := op.Payload
		if merged == models.OpDelete {
			payload = nil
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE outbox SET op = ?, payload = ?, sent = ?, attempts = 0, last_error = '', revision = revision + 1
			WHERE seq = ?`,
			merged, payload, sent, seq)
		if err != nil {
			return fmt.Errorf("failed to merge outbox op: %w", err)
		}
		return nil
	})
}

// Pending lists the user's queued operations in the order they were first queued.
func (r *SQLiteRepository) Pending(ctx context.Context, userID string) ([]models.OutboxOp, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, kind, entity_id, user_id, op, payload, attempts, last_error, sent, revision, created_at
		FROM outbox WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select outbox: %w", err)
	}
	defer rows.Close()

	var result []models.OutboxOp
	for rows.Next() {
		var op models.OutboxOp
		var kind, o string
		var created int64
		if err := rows.Scan(&op.Seq, &kind, &op.EntityID, &op.UserID, &o, &op.Payload,
			&op.Attempts, &op.LastError, &op.Sent, &op.Revision, &created); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		op.Kind = models.Kind(kind)
		op.Op = models.Op(o)
		op.CreatedAt = dbx.FromMillis(created)
		result = append(result, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// PendingDeletes returns the ids of entities of kind with a queued delete.
func (r *SQLiteRepository) PendingDeletes(ctx context.Context, kind models.Kind, userID string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_id FROM outbox WHERE kind = ? AND user_id = ? AND op = ?`, kind, userID, models.OpDelete)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending deletes: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Done removes an applied operation. If a newer write was folded into it
// since it was read (revision moved on), the op is kept and
// common.ErrNotFound is returned.
func (r *SQLiteRepository) Done(ctx context.Context, seq, revision int64) error {
	if err := dbx.ExecOne(ctx, r.db, `DELETE FROM outbox WHERE seq = ? AND revision = ?`, seq, revision); err != nil {
		return fmt.Errorf("failed to remove outbox op %d: %w", seq, err)
	}
	return nil
}

// MarkSent records that op seq is about to be pushed. From then on a delete
// folded into a queued add is kept, since the add may already exist remotely.
func (r *SQLiteRepository) MarkSent(ctx context.Context, seq int64) error {
	if err := dbx.ExecOne(ctx, r.db, `UPDATE outbox SET sent = 1 WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to mark outbox op %d sent: %w", seq, err)
	}
	return nil
}

// Has reports whether an operation is queued for the entity.
func (r *SQLiteRepository) Has(ctx context.Context, kind models.Kind, entityID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE kind = ? AND entity_id = ?`, kind, entityID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up outbox: %w", err)
	}
	return n > 0, nil
}

// Failed bumps the attempt counter and keeps the last error for display.
func (r *SQLiteRepository) Failed(ctx context.Context, seq int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := dbx.ExecOne(ctx, r.db,
		`UPDATE outbox SET attempts = attempts + 1, last_error = ? WHERE seq = ?`, msg, seq); err != nil {
		return fmt.Errorf("failed to record outbox failure %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count outbox: %w", err)
	}
	return n, nil
}
