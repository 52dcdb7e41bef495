package transactions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func tx(id string, kind models.Kind, category string, day int) models.Transaction {
	return models.Transaction{
		ID:          id,
		UserID:      "1",
		Kind:        kind,
		Category:    category,
		Amount:      decimal.RequireFromString("19.99"),
		Name:        "name " + id,
		Description: "desc",
		OccurredAt:  time.Date(2025, 10, day, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 10, day, 12, 0, 0, 0, time.UTC),
	}
}

var october = models.Monthly(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))

func TestKindsAreIsolated(t *testing.T) {
	db := setupDB(t)
	broker := changes.NewBroker()
	expenses := NewSQLiteRepository(db, models.KindExpense, broker)
	incomes := NewSQLiteRepository(db, models.KindIncome, broker)
	ctx := context.Background()

	require.NoError(t, expenses.Add(ctx, tx("e1", models.KindExpense, "food", 3)))
	require.NoError(t, expenses.Add(ctx, tx("e2", models.KindExpense, "fuel", 5)))
	require.NoError(t, incomes.Add(ctx, tx("i1", models.KindIncome, "salary", 1)))

	list, err := expenses.ListByPeriod(ctx, "1", october)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID, "newest first")

	list, err = incomes.ListByPeriod(ctx, "1", october)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.KindIncome, list[0].Kind)

	_, err = incomes.Get(ctx, "1", "e1")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.Error(t, incomes.Add(ctx, tx("e3", models.KindExpense, "food", 3)))
}

func TestListByCategory_PeriodBoundsInclusive(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db, models.KindExpense, nil)
	ctx := context.Background()

	first := tx("e1", models.KindExpense, "food", 1)
	first.OccurredAt = october.Start
	last := tx("e2", models.KindExpense, "food", 31)
	last.OccurredAt = october.End
	outside := tx("e3", models.KindExpense, "food", 31)
	outside.OccurredAt = october.End.Add(time.Millisecond)

	for _, e := range []models.Transaction{first, last, outside, tx("e4", models.KindExpense, "fuel", 10)} {
		require.NoError(t, r.Add(ctx, e))
	}

	list, err := r.ListByCategory(ctx, "1", "food", october)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []string{"e1", "e2"}, []string{list[0].ID, list[1].ID})
}

func TestUpdateDeleteAndReceipt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db, models.KindExpense, nil)
	ctx := context.Background()

	e := tx("e1", models.KindExpense, "food", 3)
	require.NoError(t, r.Backfill(ctx, e))

	e.ReceiptRef = "receipts/1/2025/10/abc"
	require.NoError(t, r.Update(ctx, e))

	got, err := r.Get(ctx, "1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "receipts/1/2025/10/abc", got.ReceiptRef)
	assert.False(t, got.Synced)

	n, err := r.CountUnsynced(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, r.Delete(ctx, "1", "e1"))
	require.ErrorIs(t, r.Delete(ctx, "1", "e1"), common.ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, e), common.ErrNotFound)

	require.NoError(t, r.MarkSynced(ctx, "1", "e1", true))
	n, err = r.CountUnsynced(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewSQLiteRepository_PanicsOnBadKind(t *testing.T) {
	assert.Panics(t, func() { NewSQLiteRepository(nil, models.KindBudget, nil) })
}

func TestAdd_IDCollisionIsRejected(t *testing.T) {
	db := setupDB(t)
	broker := changes.NewBroker()
	expenses := NewSQLiteRepository(db, models.KindExpense, broker)
	incomes := NewSQLiteRepository(db, models.KindIncome, broker)
	ctx := context.Background()

	require.NoError(t, expenses.Add(ctx, tx("x1", models.KindExpense, "food", 3)))

	ch, cancel := broker.Subscribe(changes.Match(models.KindIncome, "1"))
	defer cancel()

	err := incomes.Add(ctx, tx("x1", models.KindIncome, "salary", 3))
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Len(t, ch, 0)

	other := tx("x1", models.KindExpense, "fuel", 4)
	other.UserID = "2"
	require.ErrorIs(t, expenses.Backfill(ctx, other), common.ErrAlreadyExists)

	got, err := expenses.Get(ctx, "1", "x1")
	require.NoError(t, err)
	assert.Equal(t, "food", got.Category)
}
