// Package users is the local SQLite store for user profiles.
package users

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

type SQLiteRepository struct {
	db      dbx.DBTX
	changes *changes.Broker
}

func NewSQLiteRepository(db dbx.DBTX, broker *changes.Broker) *SQLiteRepository {
	return &SQLiteRepository{db: db, changes: broker}
}

func (r *SQLiteRepository) notify(userID string) {
	r.changes.Publish(changes.Event{Kind: models.KindUser, UserID: userID})
}

// Get returns the profile id. A user can only read their own profile, so
// userID must equal id.
func (r *SQLiteRepository) Get(ctx context.Context, userID, id string) (models.User, error) {
	if userID != id {
		return models.User{}, common.ErrNotFound
	}

	var u models.User
	var updatedAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, currency, photo_ref, synced, updated_at
		FROM users WHERE id = ? AND deleted = 0`, id).
		Scan(&u.ID, &u.Email, &u.DisplayName, &u.Currency, &u.PhotoRef, &u.Synced, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, common.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	u.UpdatedAt = dbx.FromMillis(updatedAt)
	return u, nil
}

func (r *SQLiteRepository) upsert(ctx context.Context, u models.User, synced bool) error {
	if u.Currency == "" {
		u.Currency = common.DefaultCurrency
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, currency, photo_ref, synced, deleted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			currency = excluded.currency,
			photo_ref = excluded.photo_ref,
			synced = excluded.synced,
			deleted = 0,
			updated_at = excluded.updated_at`,
		u.ID, u.Email, u.DisplayName, u.Currency, u.PhotoRef, synced, dbx.Millis(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	r.notify(u.ID)
	return nil
}

func (r *SQLiteRepository) Add(ctx context.Context, u models.User) error {
	return r.upsert(ctx, u, false)
}

func (r *SQLiteRepository) Backfill(ctx context.Context, u models.User) error {
	return r.upsert(ctx, u, true)
}

func (r *SQLiteRepository) Update(ctx context.Context, u models.User) error {
	err := dbx.ExecOne(ctx, r.db, `
		UPDATE users SET email = ?, display_name = ?, currency = ?, photo_ref = ?, synced = 0, updated_at = ?
		WHERE id = ? AND deleted = 0`,
		u.Email, u.DisplayName, u.Currency, u.PhotoRef, dbx.Millis(u.UpdatedAt), u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", u.ID, err)
	}
	r.notify(u.ID)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	if userID != id {
		return common.ErrNotFound
	}
	err := dbx.ExecOne(ctx, r.db, `UPDATE users SET deleted = 1, synced = 0 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	r.notify(id)
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, userID, id string, synced bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET synced = ? WHERE id = ?`, synced, id)
	if err != nil {
		return fmt.Errorf("failed to mark user %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ? AND synced = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced users: %w", err)
	}
	return n, nil
}
