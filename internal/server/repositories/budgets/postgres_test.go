package budgets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "user_id", "category", "amount", "remaining_amount", "period_start", "updated_at"}

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+budgets\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`
	getQuery    = `^SELECT id, user_id, category, amount, remaining_amount, period_start, updated_at FROM budgets WHERE id = \$1$`
	updateQuery = `(?s)^UPDATE\s+budgets\s+SET\b.*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	deleteQuery = `^DELETE FROM budgets WHERE id = \$1 AND user_id = \$2$`
	listQuery   = `^SELECT .* FROM budgets WHERE user_id = \$1 AND period_start BETWEEN \$2 AND \$3 ORDER BY period_start, category$`
	listCatQ    = `^SELECT .* FROM budgets WHERE user_id = \$1 AND period_start BETWEEN \$2 AND \$3 AND LOWER\(category\) = LOWER\(\$4\) ORDER BY period_start, category$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func sampleBudget() *models.Budget {
	return &models.Budget{
		ID:              "b1",
		UserID:          "u1",
		Category:        "Food",
		Amount:          decimal.RequireFromString("300.00"),
		RemainingAmount: decimal.RequireFromString("120.50"),
		PeriodStart:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	b := sampleBudget()

	mock.ExpectExec(insertQuery).
		WithArgs(b.ID, b.UserID, b.Category, b.Amount, b.RemainingAmount, b.PeriodStart, b.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), b))

	mock.ExpectExec(insertQuery).WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, repo.Create(context.Background(), b), common.ErrAlreadyExists)

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("db down"))
	err := repo.Create(context.Background(), b)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	want := sampleBudget()

	mock.ExpectQuery(getQuery).WithArgs("b1").WillReturnRows(sqlmock.NewRows(columns).
		AddRow(want.ID, want.UserID, want.Category, "300.00", "120.50", want.PeriodStart, want.UpdatedAt))
	mock.ExpectQuery(getQuery).WithArgs("b2").WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Amount.Equal(got.Amount))
	assert.True(t, want.RemainingAmount.Equal(got.RemainingAmount))

	_, err = repo.Get(context.Background(), "b2")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	b := sampleBudget()

	mock.ExpectExec(updateQuery).
		WithArgs(b.ID, b.UserID, b.Category, b.Amount, b.RemainingAmount, b.PeriodStart, b.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQuery).WithArgs("b1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQuery).WithArgs("b9", "u1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), b))
	require.ErrorIs(t, repo.Update(context.Background(), b), common.ErrNotFound)
	require.NoError(t, repo.Delete(context.Background(), "u1", "b1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "u1", "b9"), common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	t.Run("all categories", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(listQuery).WithArgs("u1", start, end).WillReturnRows(sqlmock.NewRows(columns).
			AddRow("b1", "u1", "Food", "300", "100", start, start).
			AddRow("b2", "u1", "Rent", "900", "0", start, start))

		got, err := repo.List(context.Background(), models.ListFilter{UserID: "u1", Start: start, End: end})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Rent", got[1].Category)
	})

	t.Run("category filter", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(listCatQ).WithArgs("u1", start, end, "food").WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.List(context.Background(), models.ListFilter{UserID: "u1", Start: start, End: end, Category: "food"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(listQuery).WillReturnError(errors.New("boom"))

		_, err := repo.List(context.Background(), models.ListFilter{UserID: "u1", Start: start, End: end})
		require.Error(t, err)
	})
}
