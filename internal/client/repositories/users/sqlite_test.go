package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setup(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return NewSQLiteRepository(db, changes.NewBroker())
}

func TestUserLifecycle(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	u := models.User{ID: "u1", Email: "a@b.c", DisplayName: "Ann", UpdatedAt: time.Now()}
	require.NoError(t, r.Add(ctx, u))

	got, err := r.Get(ctx, "u1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.DisplayName)
	assert.Equal(t, common.DefaultCurrency, got.Currency)
	assert.False(t, got.Synced)

	_, err = r.Get(ctx, "u2", "u1")
	require.ErrorIs(t, err, common.ErrNotFound, "profiles are private")

	got.DisplayName = "Anna"
	require.NoError(t, r.Update(ctx, got))
	require.NoError(t, r.MarkSynced(ctx, "u1", "u1", true))

	n, err := r.CountUnsynced(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.Delete(ctx, "u1", "u1"))
	_, err = r.Get(ctx, "u1", "u1")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "u1", "u1"), common.ErrNotFound)
}

func TestBackfillIsSynced(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	require.NoError(t, r.Backfill(ctx, models.User{ID: "u1", Email: "x@y.z", Currency: "USD"}))
	got, err := r.Get(ctx, "u1", "u1")
	require.NoError(t, err)
	assert.True(t, got.Synced)
	assert.Equal(t, "USD", got.Currency)
}
