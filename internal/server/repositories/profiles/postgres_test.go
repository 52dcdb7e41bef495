package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	getQuery    = `(?s)^SELECT\s+user_id,\s*email,\s*display_name,\s*currency,\s*photo_ref,\s*updated_at\s+FROM\s+profiles\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	upsertQuery = `(?s)^INSERT\s+INTO\s+profiles\b.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE\b.*$`
	deleteQuery = `^DELETE FROM profiles WHERE user_id = \$1$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestGet(t *testing.T) {
	updated := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(getQuery).WithArgs("u1").WillReturnRows(
			sqlmock.NewRows([]string{"user_id", "email", "display_name", "currency", "photo_ref", "updated_at"}).
				AddRow("u1", "a@b.c", "Alice", "EUR", "", updated))

		got, err := repo.Get(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, &models.Profile{UserID: "u1", Email: "a@b.c", DisplayName: "Alice", Currency: "EUR", UpdatedAt: updated}, got)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(getQuery).WithArgs("u2").WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), "u2")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestUpsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	p := &models.Profile{UserID: "u1", Email: "a@b.c", DisplayName: "Alice", Currency: "USD", UpdatedAt: time.Now()}

	mock.ExpectExec(upsertQuery).
		WithArgs(p.UserID, p.Email, p.DisplayName, p.Currency, p.PhotoRef, p.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Upsert(context.Background(), p))

	mock.ExpectExec(upsertQuery).WillReturnError(errors.New("boom"))
	require.Error(t, repo.Upsert(context.Background(), p))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(deleteQuery).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQuery).WithArgs("u2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "u2"), common.ErrNotFound)
}
