package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/budgets"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories(t *testing.T) {
	db := newDB(t)
	m := NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &refreshtokens.PostgresRepository{}, m.RefreshTokens(db))
	assert.IsType(t, &profiles.PostgresRepository{}, m.Profiles(db))
	assert.IsType(t, &budgets.PostgresRepository{}, m.Budgets(db))
	assert.IsType(t, &transactions.PostgresRepository{}, m.Transactions(db))
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	t.Run("success", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}
		require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t)))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("error", func(t *testing.T) {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return errors.New("boom")
		}
		err := NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t))
		require.EqualError(t, err, "boom")
	})
}
